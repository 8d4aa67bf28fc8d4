package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"jurisync/db"
	"jurisync/internal/captura"
	"jurisync/internal/model"
	"jurisync/internal/repository"
	"jurisync/pkg/pje"

	"github.com/joho/godotenv"
)

// Captura em lote: roda as entidades configuradas para todas as credenciais
// ativas, um advogado por vez. Pensado para execução agendada fora do horário
// forense.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	entidades := []string{
		model.EntidadeAcervoGeral,
		model.EntidadePendentes,
		model.EntidadeArquivados,
		model.EntidadeAudiencias,
	}
	if v := os.Getenv("CAPTURA_ENTIDADES"); v != "" {
		entidades = strings.Split(v, ",")
	}

	acervoRepo := repository.NewAcervoRepository(db.DB)
	capturaRepo := repository.NewCapturaRepository(db.DB)
	credencialRepo := repository.NewCredencialRepository(db.DB)

	stores := captura.Stores{
		Acervo:     acervoRepo,
		Audiencias: repository.NewAudienciaRepository(db.DB),
		Orgaos:     repository.NewOrgaoJulgadorRepository(db.DB),
		Partes:     repository.NewParteRepository(db.DB),
		Timeline:   repository.NewTimelineRepository(db.DB),
	}

	limits := pje.NewRateLimits()
	orchestrator := captura.NewOrchestrator(capturaRepo, stores, capturaRepo,
		func(cred model.Credencial) (captura.TribunalClient, error) {
			return pje.NewClient(pje.Config{
				Tribunal:   cred.Tribunal,
				Grau:       cred.Grau,
				IDAdvogado: cred.IDPjeAdvogado,
			}, limits)
		})

	ctx := context.Background()

	credenciais, err := credencialRepo.ListarAtivas(ctx)
	if err != nil {
		log.Fatalf("error fetching credentials: %v", err)
	}
	if len(credenciais) == 0 {
		slog.Error("no active credentials configured")
		return
	}

	porAdvogado := map[int64][]model.Credencial{}
	var advogados []int64
	for _, cred := range credenciais {
		if _, ok := porAdvogado[cred.AdvogadoID]; !ok {
			advogados = append(advogados, cred.AdvogadoID)
		}
		porAdvogado[cred.AdvogadoID] = append(porAdvogado[cred.AdvogadoID], cred)
	}

	for _, advogadoID := range advogados {
		creds := porAdvogado[advogadoID]

		var ids []int64
		for _, cred := range creds {
			ids = append(ids, cred.ID)
		}

		for _, entidade := range entidades {
			entidade = strings.TrimSpace(entidade)

			job, err := orchestrator.Iniciar(ctx, entidade, advogadoID, ids)
			if err != nil {
				slog.Error("error creating capture job", "entidade", entidade, "advogado_id", advogadoID, "error", err)
				continue
			}

			orchestrator.Executar(ctx, job, creds)
		}
	}

	slog.Info("batch capture complete", "advogados", len(advogados), "entidades", entidades)
}
