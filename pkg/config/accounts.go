package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rfarias/extratoq/pkg/models"
)

type yamlAccount struct {
	Conta      string   `yaml:"conta"`
	Titular    []string `yaml:"titular"`
	Banco      []string `yaml:"banco"`
	Tipo       []string `yaml:"tipo"`
	Prioridade int      `yaml:"prioridade"`
}

// yamlAccounts mirrors the contas.yaml layout: one list per account
// class, all flattened into a single ordered list at load.
type yamlAccounts struct {
	ContasCorrentes    []yamlAccount `yaml:"contas_correntes"`
	CartoesCredito     []yamlAccount `yaml:"cartoes_credito"`
	ContasVirtuais     []yamlAccount `yaml:"contas_virtuais"`
	ContasInvestimento []yamlAccount `yaml:"contas_investimento"`
}

// LoadAccounts reads the account list YAML. A missing or invalid file
// yields an empty list: account labels are then simply never attached.
func LoadAccounts(path string) ([]models.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}

	var raw yamlAccounts
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing accounts file: %w", err)
	}

	var accounts []models.Account
	for _, group := range [][]yamlAccount{raw.ContasCorrentes, raw.CartoesCredito, raw.ContasVirtuais, raw.ContasInvestimento} {
		for _, a := range group {
			accounts = append(accounts, models.Account{
				Label:    a.Conta,
				Titular:  a.Titular,
				Banco:    a.Banco,
				Tipo:     a.Tipo,
				Priority: a.Prioridade,
			})
		}
	}
	return accounts, nil
}
