package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

// identityEmailQuery reads the email column of the auth identity store.
const identityEmailQuery = `SELECT email FROM auth.users WHERE id = $1`

// SQLIdentityRepository queries the identity store over a direct Postgres
// connection. The connection must use a role allowed to read auth.users.
type SQLIdentityRepository struct {
	db *pgxpool.Pool
}

// NewSQLIdentityRepository constructs a SQLIdentityRepository.
func NewSQLIdentityRepository(db *pgxpool.Pool) *SQLIdentityRepository {
	return &SQLIdentityRepository{db: db}
}

// EmailByUserID returns the identity email for userID or ErrNotFound.
func (r *SQLIdentityRepository) EmailByUserID(ctx context.Context, userID string) (string, error) {
	var email *string
	err := r.db.QueryRow(ctx, identityEmailQuery, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("query identity email: %w", err)
	}
	if email == nil {
		return "", nil
	}
	return *email, nil
}

// RPCIdentityRepository runs the identity query through a Postgres function
// exposed over PostgREST. The function receives {query, params} and returns
// the result rows as JSON.
//
// postgrest-go records RPC transport failures on the client and replays them
// on every later call, so this repository must own a client that is not
// shared with the table repositories.
type RPCIdentityRepository struct {
	client   *supa.Client
	function string
}

// NewRPCIdentityRepository constructs an RPCIdentityRepository calling the
// named function.
func NewRPCIdentityRepository(client *supa.Client, function string) *RPCIdentityRepository {
	return &RPCIdentityRepository{client: client, function: function}
}

type sqlRPCBody struct {
	Query  string   `json:"query"`
	Params []string `json:"params"`
}

// EmailByUserID returns the identity email for userID or ErrNotFound.
func (r *RPCIdentityRepository) EmailByUserID(ctx context.Context, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body := sqlRPCBody{Query: identityEmailQuery, Params: []string{userID}}
	raw := r.client.Rpc(r.function, "", body)
	return parseRPCEmail(r.function, raw)
}

// parseRPCEmail interprets the raw RPC response: a JSON array of rows, a
// PostgREST error object, or an empty string when the call itself failed.
func parseRPCEmail(function, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return "", fmt.Errorf("rpc %s: empty response", function)
	}
	if strings.HasPrefix(raw, "{") {
		var rpcErr postgrest.ExecuteError
		if err := json.Unmarshal([]byte(raw), &rpcErr); err == nil && rpcErr.Message != "" {
			return "", fmt.Errorf("rpc %s: (%s) %s", function, rpcErr.Code, rpcErr.Message)
		}
		return "", fmt.Errorf("rpc %s: unexpected object response", function)
	}
	email, err := firstEmail([]byte(raw))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("rpc %s: %w", function, err)
	}
	return email, err
}
