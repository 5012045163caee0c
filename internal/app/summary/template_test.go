package summary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemInstruction_PinsRequiredElements(t *testing.T) {
	assert.Contains(t, systemInstruction, "bullet points")
	assert.Contains(t, systemInstruction, "action items")
	assert.Contains(t, systemInstruction, "Do not quote any message verbatim")
	assert.Contains(t, systemInstruction, "Example summary:", "a worked example is part of the template contract")
}

func TestRenderUserPrompt_WrapsInTripleQuotes(t *testing.T) {
	got := renderUserPrompt("alice: hi\nbob: yo")

	assert.True(t, strings.HasPrefix(got, `"""`))
	assert.True(t, strings.HasSuffix(got, `"""`))
	assert.Equal(t, `"""alice: hi`+"\n"+`bob: yo"""`, got)
}
