package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRanges(t *testing.T) {
	assert.Equal(t, "Sheet1!A1", StartRange(""))
	assert.Equal(t, "Pipeline!A1", StartRange("Pipeline"))
	assert.Equal(t, "Sheet1!A:Z", ClearRange(""))
	assert.Equal(t, "Pipeline!A:Z", ClearRange("Pipeline"))
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}
