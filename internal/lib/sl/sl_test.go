package sl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("connection refused"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "connection refused", attr.Value.String())
}

func TestOp(t *testing.T) {
	attr := Op("storage.CreateInvoice")
	assert.Equal(t, "op", attr.Key)
	assert.Equal(t, "storage.CreateInvoice", attr.Value.String())
}
