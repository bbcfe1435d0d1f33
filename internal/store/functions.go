package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/conduit-lang/catalog/internal/catalog"
)

const selectParameters = `
SELECT p.id, p.function_id, p.name, p.description, t.type,
	p.is_multiple_values, p.is_return_value, p.default_value, p.path, p.position_in_signature
FROM parameters p
JOIN parameter_types t ON t.id = p.type_id
WHERE p.function_id = ANY($1)
ORDER BY p.id`

// ListFunctions returns the functions of a component with their parameters,
// both in store order.
func (s *Store) ListFunctions(ctx context.Context, componentID int64) ([]catalog.Function, error) {
	defer s.observe("list_functions", time.Now())

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM components WHERE id = $1)`, componentID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check component %d: %w", componentID, err)
	}
	if !exists {
		return nil, fmt.Errorf("component %d: %w", componentID, ErrNotFound)
	}
	return s.listFunctions(ctx, s.db, componentID)
}

// GetFunction returns one function with all of its parameters.
func (s *Store) GetFunction(ctx context.Context, functionID int64) (*catalog.Function, error) {
	defer s.observe("get_function", time.Now())
	return s.getFunction(ctx, s.db, functionID)
}

// AddFunction creates a function with its full parameter set in one
// transaction and returns the component's updated function list.
func (s *Store) AddFunction(ctx context.Context, componentID int64, fn catalog.NewFunction) ([]catalog.Function, error) {
	defer s.observe("add_function", time.Now())

	var functions []catalog.Function
	err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		var functionID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO functions (component_id, name) VALUES ($1, $2) RETURNING id`,
			componentID, fn.Name,
		).Scan(&functionID)
		if err != nil {
			return fmt.Errorf("failed to insert function: %w", ConvertDBError(err))
		}

		if len(fn.Parameters) > 0 {
			types, err := s.typeIDs(ctx, tx)
			if err != nil {
				return err
			}
			for _, p := range fn.Parameters {
				if _, err := s.insertParameter(ctx, tx, functionID, p, types); err != nil {
					return err
				}
			}
		}

		functions, err = s.listFunctions(ctx, tx, componentID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add function to component %d: %w", componentID, err)
	}

	s.logger.Debug("function added", zap.Int64("component_id", componentID), zap.String("name", fn.Name))
	return functions, nil
}

// SaveFunction applies an incremental save: the function is renamed,
// parameters without an id are inserted and the others are overwritten.
// Parameters absent from the patch are left untouched. The full canonical
// function, with every parameter in store order, is returned.
func (s *Store) SaveFunction(ctx context.Context, functionID int64, patch catalog.FunctionPatch) (*catalog.Function, error) {
	defer s.observe("save_function", time.Now())

	var fn *catalog.Function
	err := s.txm.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `UPDATE functions SET name = $1 WHERE id = $2`, patch.Name, functionID)
		if err != nil {
			return ConvertDBError(err)
		}
		n, err := rowsAffected(result)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("function %d: %w", functionID, ErrNotFound)
		}

		if len(patch.Parameters) > 0 {
			types, err := s.typeIDs(ctx, tx)
			if err != nil {
				return err
			}
			for _, p := range patch.Parameters {
				if p.IsPersisted() {
					err = s.updateParameter(ctx, tx, functionID, p, types)
				} else {
					_, err = s.insertParameter(ctx, tx, functionID, p, types)
				}
				if err != nil {
					return err
				}
			}
		}

		fn, err = s.getFunction(ctx, tx, functionID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save function %d: %w", functionID, err)
	}
	return fn, nil
}

// DeleteFunction removes a function and its parameters.
func (s *Store) DeleteFunction(ctx context.Context, functionID int64) error {
	defer s.observe("delete_function", time.Now())
	return s.deleteByID(ctx, `DELETE FROM functions WHERE id = $1`, "function", functionID)
}

// DeleteParameter removes one parameter.
func (s *Store) DeleteParameter(ctx context.Context, parameterID int64) error {
	defer s.observe("delete_parameter", time.Now())
	return s.deleteByID(ctx, `DELETE FROM parameters WHERE id = $1`, "parameter", parameterID)
}

func (s *Store) deleteByID(ctx context.Context, query, kind string, id int64) error {
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", kind, id, ConvertDBError(err))
	}
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

func (s *Store) getFunction(ctx context.Context, q queryer, functionID int64) (*catalog.Function, error) {
	fn := &catalog.Function{}
	err := q.QueryRowContext(ctx,
		`SELECT id, component_id, name FROM functions WHERE id = $1`, functionID,
	).Scan(&fn.ID, &fn.ComponentID, &fn.Name)
	if err != nil {
		return nil, fmt.Errorf("function %d: %w", functionID, ConvertDBError(err))
	}

	params, err := s.loadParameters(ctx, q, []int64{functionID})
	if err != nil {
		return nil, err
	}
	fn.Parameters = params[functionID]
	if fn.Parameters == nil {
		fn.Parameters = []catalog.Parameter{}
	}
	return fn, nil
}

func (s *Store) listFunctions(ctx context.Context, q queryer, componentID int64) ([]catalog.Function, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, component_id, name FROM functions WHERE component_id = $1 ORDER BY id`, componentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list functions: %w", err)
	}
	defer rows.Close()

	functions := []catalog.Function{}
	var ids []int64
	for rows.Next() {
		var fn catalog.Function
		if err := rows.Scan(&fn.ID, &fn.ComponentID, &fn.Name); err != nil {
			return nil, fmt.Errorf("failed to scan function: %w", err)
		}
		functions = append(functions, fn)
		ids = append(ids, fn.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating functions: %w", err)
	}
	if len(ids) == 0 {
		return functions, nil
	}

	params, err := s.loadParameters(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range functions {
		functions[i].Parameters = params[functions[i].ID]
		if functions[i].Parameters == nil {
			functions[i].Parameters = []catalog.Parameter{}
		}
	}
	return functions, nil
}

// loadParameters fetches the parameters of several functions in one query,
// grouped by function id.
func (s *Store) loadParameters(ctx context.Context, q queryer, functionIDs []int64) (map[int64][]catalog.Parameter, error) {
	rows, err := q.QueryContext(ctx, selectParameters, pq.Array(functionIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]catalog.Parameter, len(functionIDs))
	for rows.Next() {
		var (
			id, functionID int64
			p              catalog.Parameter
			def, path      sql.NullString
			position       sql.NullInt64
		)
		err := rows.Scan(&id, &functionID, &p.Name, &p.Description, &p.ParamType,
			&p.IsMultipleValues, &p.IsReturnValue, &def, &path, &position)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parameter: %w", err)
		}
		p.ID = catalog.Int64(id)
		if def.Valid {
			p.Default = catalog.String(def.String)
		}
		if path.Valid {
			p.Path = catalog.String(path.String)
		}
		if position.Valid {
			p.PositionInSignature = catalog.Int(int(position.Int64))
		}
		out[functionID] = append(out[functionID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parameters: %w", err)
	}
	return out, nil
}

func (s *Store) insertParameter(ctx context.Context, tx *sql.Tx, functionID int64, p catalog.Parameter, types map[string]int64) (int64, error) {
	typeID, ok := types[p.ParamType]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, p.ParamType)
	}

	var id int64
	err := tx.QueryRowContext(ctx, `
INSERT INTO parameters (function_id, type_id, name, description, is_multiple_values, is_return_value, default_value, path, position_in_signature)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`,
		functionID, typeID, p.Name, p.Description, p.IsMultipleValues, p.IsReturnValue,
		nullString(p.Default), nullString(p.Path), nullInt(p.PositionInSignature),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert parameter %q: %w", p.Name, ConvertDBError(err))
	}
	return id, nil
}

func (s *Store) updateParameter(ctx context.Context, tx *sql.Tx, functionID int64, p catalog.Parameter, types map[string]int64) error {
	typeID, ok := types[p.ParamType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, p.ParamType)
	}

	result, err := tx.ExecContext(ctx, `
UPDATE parameters
SET type_id = $1, name = $2, description = $3, is_multiple_values = $4, is_return_value = $5,
	default_value = $6, path = $7, position_in_signature = $8
WHERE id = $9 AND function_id = $10`,
		typeID, p.Name, p.Description, p.IsMultipleValues, p.IsReturnValue,
		nullString(p.Default), nullString(p.Path), nullInt(p.PositionInSignature),
		*p.ID, functionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update parameter %d: %w", *p.ID, ConvertDBError(err))
	}
	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("parameter %d of function %d: %w", *p.ID, functionID, ErrNotFound)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
