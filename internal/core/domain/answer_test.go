package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerMap_SetAndGet(t *testing.T) {
	m := AnswerMap{}

	m.Set("p1", "f1", "42 psi")

	assert.Equal(t, "42 psi", m.Get("p1", "f1"))
	assert.Nil(t, m.Get("p1", "f2"))
	assert.Nil(t, m.Get("p2", "f1"))
}

func TestAnswerMap_Clone_IsDeep(t *testing.T) {
	m := AnswerMap{
		"p1": {
			"f1": "text",
			"f2": []string{"a.png", "b.png"},
		},
	}

	c := m.Clone()
	c.Set("p1", "f1", "changed")
	c["p1"]["f2"].([]string)[0] = "z.png"

	assert.Equal(t, "text", m.Get("p1", "f1"))
	assert.Equal(t, "a.png", m["p1"]["f2"].([]string)[0])
}

func TestAnswerMap_CloneNil(t *testing.T) {
	var m AnswerMap

	c := m.Clone()

	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestStringValue_Coercion(t *testing.T) {
	assert.Equal(t, "x", StringValue("x"))
	assert.Equal(t, "", StringValue(nil))
	assert.Equal(t, "", StringValue(42))
	assert.Equal(t, "", StringValue([]string{"x"}))
}

func TestNumberValue_Coercion(t *testing.T) {
	assert.Equal(t, 1.5, NumberValue(1.5))
	assert.Equal(t, 3.0, NumberValue(3))
	assert.Equal(t, 7.0, NumberValue(int64(7)))
	assert.Equal(t, 2.25, NumberValue("2.25"))
	// Non-numeric input coerces to zero, never errors.
	assert.Equal(t, 0.0, NumberValue("not a number"))
	assert.Equal(t, 0.0, NumberValue(nil))
	assert.Equal(t, 0.0, NumberValue(true))
}

func TestBoolValue_Coercion(t *testing.T) {
	assert.True(t, BoolValue(true))
	assert.False(t, BoolValue(nil))
	assert.False(t, BoolValue("true"))
}

func TestListValue_Coercion(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ListValue([]string{"a", "b"}))
	// JSON round-trips decode lists as []any.
	assert.Equal(t, []string{"a", "b"}, ListValue([]any{"a", "b"}))
	assert.Equal(t, []string{"a"}, ListValue([]any{"a", 7}))
	assert.Nil(t, ListValue("a"))
	assert.Nil(t, ListValue(nil))
}
