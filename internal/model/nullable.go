package model

import (
	"bytes"
	"encoding/json"
)

// Nullable различает три состояния поля PATCH-запроса:
// поле отсутствует (Set=false), явный null (Set=true, Null=true) и значение.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of — заданное значение.
func Of[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: v}
}

// Null — явный null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		var zero T
		n.Value = zero
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Value)
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Null {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr возвращает nil для отсутствующего или null значения.
func (n Nullable[T]) Ptr() *T {
	if !n.Set || n.Null {
		return nil
	}
	v := n.Value
	return &v
}

// HasValue — поле задано и не null.
func (n Nullable[T]) HasValue() bool {
	return n.Set && !n.Null
}
