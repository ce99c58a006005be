package validator

import (
	"testing"
	"time"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Name  string    `validate:"required"`
	Date  time.Time `validate:"required"`
	Count int       `validate:"gte=0"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Name: "a", Date: time.Now()}))

	err := ValidateRequest(sampleRequest{Count: -1})
	assert.True(t, ierr.IsValidation(err))

	details := ierr.ReportableDetails(err)
	assert.Equal(t, "required", details["sampleRequest.Name"])
	assert.Equal(t, "required", details["sampleRequest.Date"])
	assert.Equal(t, "gte", details["sampleRequest.Count"])
}

func TestValidateRequest_NotAStruct(t *testing.T) {
	err := ValidateRequest("not a struct")
	assert.True(t, ierr.IsValidation(err))
}
