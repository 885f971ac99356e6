package reporter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashmaji946/corelang/langerr"
	"github.com/akashmaji946/corelang/reporter"
	"github.com/akashmaji946/corelang/token"
)

func TestFromErrorCopiesMessageAndSpan(t *testing.T) {
	source := "1 + true"
	span := token.Span{Start: 4, End: 8}
	err := langerr.InvalidOperandsErr(span, "+", "integer", "boolean")

	diag := reporter.FromError(err, source)
	assert.Equal(t, err.Error(), diag.Message)
	assert.Equal(t, span, diag.Primary)
	assert.Equal(t, reporter.SeverityError, diag.Severity)
}

func TestRenderIncludesMessageAndSourceLine(t *testing.T) {
	source := "let x = 1 / 0;"
	span := token.Span{Start: 8, End: 13}
	err := langerr.DivisionByZeroErr(span)
	diag := reporter.FromError(err, source)

	var buf bytes.Buffer
	require := assert.New(t)
	require.NoError(reporter.Render(&buf, diag, false))

	out := buf.String()
	require.Contains(out, "division by zero")
	require.Contains(out, source)
	require.Contains(out, "^")
}

func TestRenderOnEmptySourceStillWritesMessage(t *testing.T) {
	diag := reporter.Diagnostic{
		Severity: reporter.SeverityWarning,
		Message:  "something",
		Primary:  token.Span{Start: 0, End: 0},
		Source:   "",
	}
	var buf bytes.Buffer
	assert.NoError(t, reporter.Render(&buf, diag, false))
	assert.Contains(t, buf.String(), "warning: something")
}
