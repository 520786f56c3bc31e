// Package validate centraliza la instancia de go-playground/validator.
// Los DTOs declaran sus reglas con tags `validate:"..."` y los handlers o
// use cases llaman Struct antes de tocar la DB.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// una sola instancia: compila y cachea la metadata de structs (thread-safe).
var v = validator.New(validator.WithRequiredStructEnabled())

// Struct valida un struct por sus tags. Devuelve nil si pasa.
func Struct(s interface{}) error {
	return v.Struct(s)
}

// Messages convierte un error de validación en mensajes campo:regla legibles.
// Si el error no es de validación, devuelve su Error() tal cual.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: falla la regla '%s=%s'", field, fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: falla la regla '%s'", field, fe.Tag()))
	}
	return msgs
}
