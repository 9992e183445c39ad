package response

import (
	"net/http"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
)

func TestValidationError_GroupsByField(t *testing.T) {
	validate := validator.New()
	type req struct {
		CNP  string `validate:"required,len=13,numeric"`
		Name string `validate:"required"`
	}

	err := validate.Struct(req{CNP: "abc"})
	require.Error(t, err)

	result := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, "validation failed", result.Message)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "CNP", result.Errors[0].Field)
	assert.NotEmpty(t, result.Errors[0].FieldErrors)
	assert.Equal(t, "Name", result.Errors[1].Field)
}

func TestFromError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "отсутствующая сущность",
			err:        &errs.NotFound{Entity: errs.EntityCustomer, ID: 42},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "висячая ссылка",
			err:        &errs.ReferenceNotFound{Entity: errs.EntityContract, ID: 7},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "нарушение бизнес-правила",
			err:        &errs.RuleViolation{Rule: errs.RulePaymentOverpays, Detail: "payment exceeds invoice amount"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ошибка хранилища",
			err:        errs.Store("storage.test", assert.AnError),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := FromError(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.NotEmpty(t, body.Message)
		})
	}
}
