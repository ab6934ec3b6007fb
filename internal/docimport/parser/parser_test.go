package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub-backend/internal/docimport/parser"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"unix newlines", "a\nb\nc", "a b c"},
		{"windows newlines", "a\r\nb\r\nc", "a b c"},
		{"old mac newlines", "a\rb\rc", "a b c"},
		{"mixed newlines", "a\r\nb\rc\nd", "a b c d"},
		{"whitespace runs", "a  \t  b", "a b"},
		{"leading and trailing", "  a b  ", "a b"},
		{"empty", "", ""},
		{"only whitespace", " \r\n \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parser.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Name: John\r\nEmail: j@x.com",
		"a\rb\r\nc\nd   e",
		"",
	}

	for _, input := range inputs {
		once := parser.Normalize(input)
		twice := parser.Normalize(once)
		assert.Equal(t, once, twice)
	}
}

func TestParse_FullDocument(t *testing.T) {
	input := "Name: John Doe\nEmail: john@example.com\nPhone: +1 (555) 123-4567\n" +
		"Address: 123 Main St\nCity: New York\nState: NY\nZip: 10001\n" +
		"DOB: 01-09-1990\nGender: Male\nOccupation: Engineer"

	fields := parser.Parse(input)

	assert.Equal(t, "John Doe", fields.Name)

	require.NotNil(t, fields.Email)
	assert.Equal(t, "john@example.com", *fields.Email)

	require.NotNil(t, fields.Phone)
	assert.Equal(t, "+1 (555) 123-4567", *fields.Phone)

	require.NotNil(t, fields.Address)
	assert.Equal(t, "123 Main St", *fields.Address)

	require.NotNil(t, fields.City)
	assert.Equal(t, "New York", *fields.City)

	require.NotNil(t, fields.State)
	assert.Equal(t, "NY", *fields.State)

	require.NotNil(t, fields.Zip)
	assert.Equal(t, "10001", *fields.Zip)

	require.NotNil(t, fields.DOB)
	assert.Equal(t, "01-09-1990", *fields.DOB)

	require.NotNil(t, fields.Gender)
	assert.Equal(t, "Male", *fields.Gender)

	require.NotNil(t, fields.Occupation)
	assert.Equal(t, "Engineer", *fields.Occupation)
}

func TestParse_PartialDocument(t *testing.T) {
	fields := parser.Parse("Name: Jane Smith\nEmail: jane@test.com")

	assert.Equal(t, "Jane Smith", fields.Name)
	require.NotNil(t, fields.Email)
	assert.Equal(t, "jane@test.com", *fields.Email)

	assert.Nil(t, fields.Phone)
	assert.Nil(t, fields.Address)
	assert.Nil(t, fields.City)
	assert.Nil(t, fields.State)
	assert.Nil(t, fields.Zip)
	assert.Nil(t, fields.DOB)
	assert.Nil(t, fields.Gender)
	assert.Nil(t, fields.Occupation)
}

func TestParse_EmptyInput(t *testing.T) {
	fields := parser.Parse("")

	assert.Equal(t, parser.UnknownName, fields.Name)
	assert.Nil(t, fields.Email)
	assert.Nil(t, fields.Phone)
	assert.Nil(t, fields.Address)
	assert.Nil(t, fields.City)
	assert.Nil(t, fields.State)
	assert.Nil(t, fields.Zip)
	assert.Nil(t, fields.DOB)
	assert.Nil(t, fields.Gender)
	assert.Nil(t, fields.Occupation)
}

func TestParse_NoNameLabel(t *testing.T) {
	fields := parser.Parse("Email: someone@example.com\nCity: Berlin")

	assert.Equal(t, parser.UnknownName, fields.Name)
	require.NotNil(t, fields.Email)
	assert.Equal(t, "someone@example.com", *fields.Email)
	require.NotNil(t, fields.City)
	assert.Equal(t, "Berlin", *fields.City)
}

func TestParse_LabelVariants(t *testing.T) {
	t.Run("full name", func(t *testing.T) {
		fields := parser.Parse("Full Name: Ada Lovelace")
		assert.Equal(t, "Ada Lovelace", fields.Name)
	})

	t.Run("hyphenated email", func(t *testing.T) {
		fields := parser.Parse("E-mail: ada@example.com")
		require.NotNil(t, fields.Email)
		assert.Equal(t, "ada@example.com", *fields.Email)
	})

	t.Run("mobile as phone", func(t *testing.T) {
		fields := parser.Parse("Mobile: 555-0100")
		require.NotNil(t, fields.Phone)
		assert.Equal(t, "555-0100", *fields.Phone)
	})

	t.Run("postal code as zip", func(t *testing.T) {
		fields := parser.Parse("Postal Code: 90210")
		require.NotNil(t, fields.Zip)
		assert.Equal(t, "90210", *fields.Zip)
	})

	t.Run("date of birth as dob", func(t *testing.T) {
		fields := parser.Parse("Date of Birth: 1990-09-01")
		require.NotNil(t, fields.DOB)
		assert.Equal(t, "1990-09-01", *fields.DOB)
	})

	t.Run("case insensitive labels", func(t *testing.T) {
		fields := parser.Parse("NAME: Grace Hopper\nemail: grace@navy.mil")
		assert.Equal(t, "Grace Hopper", fields.Name)
		require.NotNil(t, fields.Email)
		assert.Equal(t, "grace@navy.mil", *fields.Email)
	})
}

func TestParse_FirstLabelOccurrenceWins(t *testing.T) {
	fields := parser.Parse("Name: First Person\nName: Second Person")

	assert.Equal(t, "First Person", fields.Name)
}

func TestParse_EmailStopsAtWhitespace(t *testing.T) {
	fields := parser.Parse("Email: john@example.com extra trailing words")

	require.NotNil(t, fields.Email)
	assert.Equal(t, "john@example.com", *fields.Email)
}

func TestParse_DOBKeptVerbatim(t *testing.T) {
	// Captured substrings are never reformatted.
	fields := parser.Parse("DOB: 01-09-1990")

	require.NotNil(t, fields.DOB)
	assert.Equal(t, "01-09-1990", *fields.DOB)
}

func TestParse_EmptyValueIsAbsent(t *testing.T) {
	fields := parser.Parse("Name: Jo\nGender:\nCity: Oslo")

	assert.Equal(t, "Jo", fields.Name)
	assert.Nil(t, fields.Gender)
	require.NotNil(t, fields.City)
	assert.Equal(t, "Oslo", *fields.City)
}

func TestParse_WindowsLineEndings(t *testing.T) {
	fields := parser.Parse("Name: John Doe\r\nEmail: john@example.com")

	assert.Equal(t, "John Doe", fields.Name)
	require.NotNil(t, fields.Email)
	assert.Equal(t, "john@example.com", *fields.Email)
}
