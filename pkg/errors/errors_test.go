package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("Car", nil))

	assert.True(t, Is(err, CodeNotFound))
	assert.False(t, Is(err, CodeBadRequest))
	assert.False(t, Is(fmt.Errorf("plain"), CodeNotFound))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(BadRequest("bad", nil)))
	assert.True(t, IsClientError(Forbidden("no", nil)))
	assert.True(t, IsClientError(InvalidStatus("sold", "approved")))
	assert.False(t, IsClientError(Internal("boom", nil)))
	assert.False(t, IsClientError(fmt.Errorf("network down")))
}

func TestInvalidStatus(t *testing.T) {
	err := InvalidStatus("sold", "approved")

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Cannot change status from sold to approved", err.Message)
}
