package captura

import (
	"encoding/json"
	"reflect"
	"sort"
	"time"
)

// Campos de controle: identidade, timestamps e o próprio campo de auditoria.
// Nunca participam da comparação estrutural nem do snapshot de auditoria.
var camposControle = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"dados_anteriores": true,
	"id_pje":           true,
	"trt":              true,
	"grau":             true,
	"numero_processo":  true,
}

// RemoverCamposControle devolve uma cópia sem os campos de controle.
func RemoverCamposControle(dados map[string]any) map[string]any {
	limpo := make(map[string]any, len(dados))
	for k, v := range dados {
		if camposControle[k] {
			continue
		}
		limpo[k] = normalizar(v)
	}
	return limpo
}

// Comparar faz a comparação estrutural entre o registro novo e o existente,
// ignorando campos de controle. Retorna os nomes dos campos divergentes em
// ordem alfabética.
func Comparar(novos, existentes map[string]any) (camposAlterados []string, identicos bool) {
	a := RemoverCamposControle(novos)
	b := RemoverCamposControle(existentes)

	keys := make(map[string]bool, len(a)+len(b))
	for k := range a {
		keys[k] = true
	}
	for k := range b {
		keys[k] = true
	}

	for k := range keys {
		if !reflect.DeepEqual(a[k], b[k]) {
			camposAlterados = append(camposAlterados, k)
		}
	}

	sort.Strings(camposAlterados)
	return camposAlterados, len(camposAlterados) == 0
}

// SnapshotAnterior serializa o estado corrente (sem campos de controle) para
// gravação em dados_anteriores.
func SnapshotAnterior(existentes map[string]any) (json.RawMessage, error) {
	return json.Marshal(RemoverCamposControle(existentes))
}

// normalizar torna valores comparáveis por reflect.DeepEqual: datas viram
// RFC3339 em UTC (o round-trip pelo banco perde relógio monotônico e pode
// trocar o fuso) e ponteiros são desreferenciados, com nil → nil.
func normalizar(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(time.RFC3339)
	case *string:
		if t == nil {
			return nil
		}
		return *t
	case *int64:
		if t == nil {
			return nil
		}
		return *t
	case *int:
		if t == nil {
			return nil
		}
		return *t
	case *bool:
		if t == nil {
			return nil
		}
		return *t
	default:
		return v
	}
}
