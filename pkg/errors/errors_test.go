package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsCodeAndOverridesMessage(t *testing.T) {
	clone := Clone(ErrValidation, "score payload malformed")
	assert.Equal(t, ErrValidation.Code, clone.Code)
	assert.Equal(t, http.StatusBadRequest, clone.Status)
	assert.Equal(t, "score payload malformed", clone.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
}

func TestFromErrorWrapsPlainErrors(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Nil(t, FromError(nil))
}

func TestHasCodeFollowsWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", Clone(ErrUnknownAssessmentType, "quiz"))
	assert.True(t, HasCode(err, ErrUnknownAssessmentType))
	assert.False(t, HasCode(err, ErrValidation))
	assert.False(t, HasCode(nil, ErrValidation))
}
