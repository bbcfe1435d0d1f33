package store

import (
	"context"
	"fmt"
	"time"

	"github.com/conduit-lang/catalog/internal/catalog"
)

// ListComponents returns every component ordered by id.
func (s *Store) ListComponents(ctx context.Context) ([]catalog.Component, error) {
	defer s.observe("list_components", time.Now())

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM components ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	defer rows.Close()

	components := []catalog.Component{}
	for rows.Next() {
		var c catalog.Component
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan component: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating components: %w", err)
	}
	return components, nil
}

// CreateComponent inserts a component and returns it with its id.
func (s *Store) CreateComponent(ctx context.Context, in catalog.ComponentInput) (*catalog.Component, error) {
	defer s.observe("create_component", time.Now())

	c := &catalog.Component{Name: in.Name, Description: in.Description}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO components (name, description) VALUES ($1, $2) RETURNING id`,
		in.Name, in.Description,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create component: %w", ConvertDBError(err))
	}
	return c, nil
}

// GetComponent returns a component with all of its functions.
func (s *Store) GetComponent(ctx context.Context, id int64) (*catalog.ComponentDetail, error) {
	defer s.observe("get_component", time.Now())

	detail := &catalog.ComponentDetail{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM components WHERE id = $1`, id,
	).Scan(&detail.ID, &detail.Name, &detail.Description)
	if err != nil {
		return nil, fmt.Errorf("component %d: %w", id, ConvertDBError(err))
	}

	functions, err := s.listFunctions(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	detail.Functions = functions
	return detail, nil
}

// UpdateComponent replaces the writable fields of a component.
func (s *Store) UpdateComponent(ctx context.Context, id int64, in catalog.ComponentInput) (*catalog.Component, error) {
	defer s.observe("update_component", time.Now())

	c := &catalog.Component{}
	err := s.db.QueryRowContext(ctx,
		`UPDATE components SET name = $1, description = $2 WHERE id = $3 RETURNING id, name, description`,
		in.Name, in.Description, id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		return nil, fmt.Errorf("component %d: %w", id, ConvertDBError(err))
	}
	return c, nil
}

// DeleteComponent removes a component; its functions and their parameters
// go with it.
func (s *Store) DeleteComponent(ctx context.Context, id int64) error {
	defer s.observe("delete_component", time.Now())

	result, err := s.db.ExecContext(ctx, `DELETE FROM components WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete component %d: %w", id, ConvertDBError(err))
	}
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("component %d: %w", id, ErrNotFound)
	}
	return nil
}
