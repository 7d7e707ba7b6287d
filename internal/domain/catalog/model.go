package catalog

import "time"

// Breed é uma raça do rebanho. Nome único entre as ativas; recriar uma
// raça desativada com o mesmo nome a reativa.
type Breed struct {
	ID        string
	Nome      string
	Descricao string
	Origem    string
	Ativo     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Lot é um agrupamento de manejo, independente de localização física.
type Lot struct {
	ID         string
	Nome       string
	Descricao  string
	Capacidade *int
	Ativo      bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Pasture é uma área física de pastejo.
type Pasture struct {
	ID           string
	Nome         string
	AreaHectares *float64
	TipoCapim    string
	Observacoes  string
	Ativo        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
