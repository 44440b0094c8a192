package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/condominiosolar/portaria/internal/autorizacao"
	"github.com/condominiosolar/portaria/internal/config"
	"github.com/condominiosolar/portaria/internal/gateway"
	"github.com/condominiosolar/portaria/internal/qr"
)

// autorizar cadastra uma autorização direto da linha de comando, útil para a
// administração do condomínio quando o morador não consegue usar o link.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	var (
		tipo       = flag.String("tipo", "visitante", "visitante ou prestador")
		nome       = flag.String("nome", "", "nome completo do visitante")
		email      = flag.String("email", "", "email do visitante (opcional)")
		telefone   = flag.String("telefone", "", "telefone do visitante")
		cpf        = flag.String("cpf", "", "CPF (11 dígitos)")
		rg         = flag.String("rg", "", "RG (5 a 10 dígitos)")
		empresa    = flag.String("empresa", "", "empresa (obrigatória para prestador)")
		cnpj       = flag.String("cnpj", "", "CNPJ da empresa (opcional)")
		periodo    = flag.String("periodo", "unico", "unico ou intervalo")
		dataInicio = flag.String("data-inicio", "", "data de início (AAAA-MM-DD, padrão hoje)")
		dataFim    = flag.String("data-fim", "", "data de fim (AAAA-MM-DD, só para intervalo)")

		autNome     = flag.String("autorizador", "", "nome do morador que autoriza")
		autTelefone = flag.String("autorizador-telefone", "", "telefone do morador")
		unidade     = flag.String("unidade", "", "código da unidade (ex.: 101A)")

		dryRun = flag.Bool("validar", false, "só valida, sem enviar")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	aut := autorizacao.NovoAutorizador(*autNome, *autTelefone, *unidade)
	if !aut.Completo() {
		log.Fatal().Msg("informe -autorizador, -autorizador-telefone e -unidade")
	}

	rascunho := autorizacao.NovoRascunho(aut)
	campos := map[string]string{
		"tipo":       *tipo,
		"nome":       *nome,
		"email":      *email,
		"telefone":   *telefone,
		"cpf":        *cpf,
		"rg":         *rg,
		"empresa":    *empresa,
		"cnpj":       *cnpj,
		"periodo":    *periodo,
		"dataInicio": *dataInicio,
		"dataFim":    *dataFim,
	}
	for campo, valor := range campos {
		if valor != "" {
			rascunho.AtualizarCampo(campo, valor)
		}
	}

	if erros := rascunho.Validar(); len(erros) > 0 {
		nomes := make([]string, 0, len(erros))
		for campo := range erros {
			nomes = append(nomes, campo)
		}
		sort.Strings(nomes)
		for _, campo := range nomes {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", campo, erros[campo])
		}
		log.Fatal().Int("campos", len(erros)).Msg("cadastro inválido")
	}

	if *dryRun {
		fmt.Println("cadastro válido")
		return
	}

	api, err := gateway.New(gateway.Config{
		BaseURL:       cfg.APIBaseURL,
		CondominioID:  cfg.CondominioID,
		Token:         cfg.APIToken,
		Timeout:       cfg.APITimeout,
		UploadTimeout: cfg.UploadTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("gateway")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	criada, err := api.CreateAutorizacao(ctx, rascunho.PayloadDeEnvio())
	if err != nil {
		log.Fatal().Err(err).Msg("falha ao criar autorização")
	}

	codigo := qr.Encode(criada)
	fmt.Printf("autorização criada: %s\n", criada.ID)
	if criada.Link != "" {
		fmt.Printf("link: %s\n", criada.Link)
	}
	fmt.Printf("qr: %s\n", qr.ImageURL(codigo, 300))
}
