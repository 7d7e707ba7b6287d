package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"controle-gado/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, brinco, nome, sexo,
	data_nascimento, raca_id, peso_atual,
	lote_id, pasto_id, mae_id, pai_id,
	origem, valor_compra, observacoes,
	status, created_at, updated_at
`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animais (`+animalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		a.ID, a.Brinco, a.Nome, string(a.Sexo),
		a.DataNascimento, a.RacaID, a.PesoAtual,
		a.LoteID, a.PastoID, a.MaeID, a.PaiID,
		a.Origem, a.ValorCompra, a.Observacoes,
		string(a.Status), a.CreatedAt, a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return animals.ErrBrincoTaken
	}
	return err
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animais SET
			nome = $2,
			sexo = $3,
			data_nascimento = $4,
			raca_id = $5,
			peso_atual = $6,
			lote_id = $7,
			pasto_id = $8,
			mae_id = $9,
			pai_id = $10,
			origem = $11,
			valor_compra = $12,
			observacoes = $13,
			status = $14,
			updated_at = $15
		WHERE id = $1
	`,
		a.ID, a.Nome, string(a.Sexo),
		a.DataNascimento, a.RacaID, a.PesoAtual,
		a.LoteID, a.PastoID, a.MaeID, a.PaiID,
		a.Origem, a.ValorCompra, a.Observacoes,
		string(a.Status), a.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *AnimalsRepo) GetByBrinco(ctx context.Context, brinco string) (animals.Animal, error) {
	return r.getBy(ctx, "LOWER(brinco) = LOWER($1)", strings.TrimSpace(brinco))
}

func (r *AnimalsRepo) getBy(ctx context.Context, where string, arg any) (animals.Animal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animais
		WHERE `+where, arg)

	a, err := scanAnimal(row.Scan)
	if err == sql.ErrNoRows {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, err
}

func (r *AnimalsRepo) List(ctx context.Context, f animals.Filter) ([]animals.Animal, error) {
	query, args := buildAnimalFilter(`SELECT `+animalColumns+` FROM animais WHERE 1=1`, f)
	query += " ORDER BY brinco ASC"

	argN := len(args) + 1
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argN)
		args = append(args, f.Limit)
		argN++
	}
	if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argN)
		args = append(args, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) CountActive(ctx context.Context, f animals.Filter) (int, error) {
	f.Status = animals.StatusActive
	query, args := buildAnimalFilter(`SELECT COUNT(*) FROM animais WHERE 1=1`, f)

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildAnimalFilter(base string, f animals.Filter) (string, []any) {
	sb := strings.Builder{}
	sb.WriteString(base)

	args := []any{}
	argN := 1

	if f.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(f.Status))
		argN++
	}
	if f.Sexo != "" {
		sb.WriteString(fmt.Sprintf(" AND sexo = $%d", argN))
		args = append(args, string(f.Sexo))
		argN++
	}
	if f.LoteID != "" {
		sb.WriteString(fmt.Sprintf(" AND lote_id = $%d", argN))
		args = append(args, f.LoteID)
		argN++
	}
	if f.PastoID != "" {
		sb.WriteString(fmt.Sprintf(" AND pasto_id = $%d", argN))
		args = append(args, f.PastoID)
	}

	return sb.String(), args
}

func scanAnimal(scan func(...any) error) (animals.Animal, error) {
	var a animals.Animal
	var sexo, status string
	var nascimento sql.NullTime
	var racaID, loteID, pastoID, maeID, paiID sql.NullString
	var peso, valorCompra sql.NullFloat64

	if err := scan(
		&a.ID, &a.Brinco, &a.Nome, &sexo,
		&nascimento, &racaID, &peso,
		&loteID, &pastoID, &maeID, &paiID,
		&a.Origem, &valorCompra, &a.Observacoes,
		&status, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return animals.Animal{}, err
	}

	a.Sexo = animals.Sex(sexo)
	a.Status = animals.Status(status)
	if nascimento.Valid {
		a.DataNascimento = &nascimento.Time
	}
	if racaID.Valid {
		a.RacaID = &racaID.String
	}
	if peso.Valid {
		a.PesoAtual = &peso.Float64
	}
	if loteID.Valid {
		a.LoteID = &loteID.String
	}
	if pastoID.Valid {
		a.PastoID = &pastoID.String
	}
	if maeID.Valid {
		a.MaeID = &maeID.String
	}
	if paiID.Valid {
		a.PaiID = &paiID.String
	}
	if valorCompra.Valid {
		a.ValorCompra = &valorCompra.Float64
	}
	return a, nil
}
