package acervo

import (
	"sort"
	"strings"
	"time"

	"jurisync/internal/model"
)

// Unificar agrupa as instâncias físicas pelo numero_processo. O registro
// representativo de cada grupo é a instância do grau atual, isto é, a de
// data_autuacao mais recente (empate resolve para o segundo grau, que é
// sempre posterior na vida do processo).
func Unificar(instancias []model.Processo) []model.ProcessoUnificado {
	grupos := make(map[string][]model.Processo)
	var ordem []string

	for _, inst := range instancias {
		numero := strings.TrimSpace(inst.NumeroProcesso)
		if _, ok := grupos[numero]; !ok {
			ordem = append(ordem, numero)
		}
		grupos[numero] = append(grupos[numero], inst)
	}

	unificados := make([]model.ProcessoUnificado, 0, len(ordem))
	for _, numero := range ordem {
		unificados = append(unificados, unificarGrupo(grupos[numero]))
	}
	return unificados
}

func unificarGrupo(instancias []model.Processo) model.ProcessoUnificado {
	atual := instancias[0]
	for _, inst := range instancias[1:] {
		if inst.DataAutuacao.After(atual.DataAutuacao) {
			atual = inst
			continue
		}
		if inst.DataAutuacao.Equal(atual.DataAutuacao) && inst.Grau == model.GrauSegundo && atual.Grau != model.GrauSegundo {
			atual = inst
		}
	}

	graus := make(map[string]bool, 2)
	resumo := make([]model.ProcessoInstancia, 0, len(instancias))
	for _, inst := range instancias {
		graus[inst.Grau] = true
		resumo = append(resumo, model.ProcessoInstancia{
			ID:           inst.ID,
			Grau:         inst.Grau,
			Origem:       inst.Origem,
			TRT:          inst.TRT,
			DataAutuacao: inst.DataAutuacao,
			UpdatedAt:    inst.UpdatedAt,
			IsGrauAtual:  inst.ID == atual.ID,
		})
	}

	grausAtivos := make([]string, 0, len(graus))
	if graus[model.GrauPrimeiro] {
		grausAtivos = append(grausAtivos, model.GrauPrimeiro)
	}
	if graus[model.GrauSegundo] {
		grausAtivos = append(grausAtivos, model.GrauSegundo)
	}

	return model.ProcessoUnificado{
		Processo:    atual,
		GrauAtual:   atual.Grau,
		GrausAtivos: grausAtivos,
		Instances:   resumo,
	}
}

// FiltrarPorGrau mantém os processos cujo grau atual é o pedido. O grau é
// propriedade do processo unificado, por isso o filtro roda depois do
// agrupamento e nunca na consulta ao banco.
func FiltrarPorGrau(processos []model.ProcessoUnificado, grau string) []model.ProcessoUnificado {
	if grau == "" {
		return processos
	}
	filtrados := make([]model.ProcessoUnificado, 0, len(processos))
	for _, p := range processos {
		if p.GrauAtual == grau {
			filtrados = append(filtrados, p)
		}
	}
	return filtrados
}

// Ordenar ordena os processos unificados pelo campo pedido. Chaves nulas vão
// para o fim em qualquer direção.
func Ordenar(processos []model.ProcessoUnificado, ordenarPor, ordem string) {
	desc := ordem != "asc"

	var menor func(a, b model.ProcessoUnificado) bool
	switch ordenarPor {
	case "numero_processo":
		menor = func(a, b model.ProcessoUnificado) bool {
			return a.NumeroProcesso < b.NumeroProcesso
		}
	case "updated_at":
		menor = func(a, b model.ProcessoUnificado) bool {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	case "data_arquivamento":
		sort.SliceStable(processos, func(i, j int) bool {
			return antesPtr(processos[i].DataArquivamento, processos[j].DataArquivamento, desc)
		})
		return
	case "data_proxima_audiencia":
		sort.SliceStable(processos, func(i, j int) bool {
			return antesPtr(processos[i].DataProximaAudiencia, processos[j].DataProximaAudiencia, desc)
		})
		return
	default:
		menor = func(a, b model.ProcessoUnificado) bool {
			return a.DataAutuacao.Before(b.DataAutuacao)
		}
	}

	sort.SliceStable(processos, func(i, j int) bool {
		if desc {
			return menor(processos[j], processos[i])
		}
		return menor(processos[i], processos[j])
	})
}

func antesPtr(a, b *time.Time, desc bool) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return false
	case b == nil:
		return true
	case desc:
		return b.Before(*a)
	default:
		return a.Before(*b)
	}
}

// Paginar recorta a página pedida do conjunto já agrupado e ordenado.
func Paginar(processos []model.ProcessoUnificado, pagina, limite int) []model.ProcessoUnificado {
	inicio := (pagina - 1) * limite
	if inicio >= len(processos) {
		return nil
	}
	fim := inicio + limite
	if fim > len(processos) {
		fim = len(processos)
	}
	return processos[inicio:fim]
}
