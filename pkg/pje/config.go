package pje

import (
	"fmt"
	"regexp"
	"strconv"
)

var trtPattern = regexp.MustCompile(`^TRT([1-9]|1[0-9]|2[0-4])$`)

// BaseURL resolve a URL base da API do PJE para um tribunal e grau.
// Cada um dos 24 TRTs expõe uma instância independente por grau.
func BaseURL(trt, grau string) (string, error) {
	m := trtPattern.FindStringSubmatch(trt)
	if m == nil {
		return "", &ValidationError{Message: fmt.Sprintf("tribunal inválido: %q", trt)}
	}
	n, _ := strconv.Atoi(m[1])

	switch grau {
	case "primeiro_grau":
		return fmt.Sprintf("https://pje.trt%d.jus.br/primeirograu", n), nil
	case "segundo_grau":
		return fmt.Sprintf("https://pje.trt%d.jus.br/segundograu", n), nil
	}
	return "", &ValidationError{Message: fmt.Sprintf("grau inválido: %q", grau)}
}
