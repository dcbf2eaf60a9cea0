// Copyright (c) 2026 Parley. All rights reserved.
// Author: dev@parleyhq.dev

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/internal/platform/apperr"
	"github.com/parleyhq/parley/internal/platform/validate"
)

func TestHasWordContent(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "plain word", value: "hello", want: true},
		{name: "words with spaces", value: "a b", want: true},
		{name: "single digit", value: "7", want: true},
		{name: "underscore only", value: "_", want: true},
		{name: "word among punctuation", value: "!!ok!!", want: true},
		{name: "empty string", value: "", want: false},
		{name: "whitespace only", value: "   \t\n", want: false},
		{name: "punctuation only", value: "!!!???", want: false},
		{name: "dashes only", value: "---", want: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, validate.HasWordContent(testCase.value))
		})
	}
}

func TestIsNumericID(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "single digit", value: "0", want: true},
		{name: "multi digit", value: "12345", want: true},
		{name: "leading zeros", value: "007", want: true},
		{name: "empty string", value: "", want: false},
		{name: "negative number", value: "-1", want: false},
		{name: "trailing letter", value: "12a", want: false},
		{name: "leading letter", value: "a12", want: false},
		{name: "embedded space", value: "1 2", want: false},
		{name: "decimal point", value: "1.2", want: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, validate.IsNumericID(testCase.value))
		})
	}
}

func TestValidatorChain(t *testing.T) {
	t.Run("all rules pass", func(t *testing.T) {
		v := &validate.Validator{}
		err := v.
			Required("title", "First topic").
			WordContent("title", "First topic").
			MaxLen("title", "First topic", 200).
			Err()

		assert.NoError(t, err)
		assert.False(t, v.HasErrors())
	})

	t.Run("collects multiple failures", func(t *testing.T) {
		v := &validate.Validator{}
		err := v.
			Required("title", "   ").
			WordContent("content", "!!!").
			Err()

		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		assert.Len(t, appError.Details, 2)
		assert.Equal(t, "title", appError.Details[0].Field)
		assert.Equal(t, "content", appError.Details[1].Field)
	})

	t.Run("custom rule", func(t *testing.T) {
		v := &validate.Validator{}
		err := v.Custom("page", true, "Must not be negative").Err()

		require.Error(t, err)
		assert.True(t, v.HasErrors())
	})
}

func TestRequiredError(t *testing.T) {
	appError := validate.RequiredError("username", "This field is required")

	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	require.Len(t, appError.Details, 1)
	assert.Equal(t, "username", appError.Details[0].Field)
}
