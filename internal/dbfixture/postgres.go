package dbfixture

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5"
)

const (
	existsQuery    = "SELECT COUNT(*) FROM pg_database WHERE datname=$1"
	terminateQuery = "SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname=$1"
)

type postgres struct {
	dsn string
	log *slog.Logger
}

// connect opens the control connection. Statements run outside a
// transaction, as CREATE/DROP DATABASE require.
func (p *postgres) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, p.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to control database: %w", err)
	}
	return conn, nil
}

func (p *postgres) close(ctx context.Context, conn *pgx.Conn) {
	if err := conn.Close(ctx); err != nil {
		p.log.Debug("close control connection", "error", err)
	}
}

func (p *postgres) exists(ctx context.Context, conn *pgx.Conn, name string) (bool, error) {
	var n int
	if err := conn.QueryRow(ctx, existsQuery, name).Scan(&n); err != nil {
		return false, fmt.Errorf("check database %s: %w", name, err)
	}
	return n == 1, nil
}

func (p *postgres) Create(ctx context.Context, name string) (*Database, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	conn, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer p.close(ctx, conn)

	found, err := p.exists(ctx, conn, name)
	if err != nil {
		return nil, err
	}
	ident := pgx.Identifier{name}.Sanitize()
	if found {
		// Left behind by an interrupted run.
		p.log.Info("dropping stale database", "database", name)
		if _, err := conn.Exec(ctx, terminateQuery, name); err != nil {
			return nil, fmt.Errorf("terminate connections to %s: %w", name, err)
		}
		if _, err := conn.Exec(ctx, "DROP DATABASE "+ident); err != nil {
			return nil, fmt.Errorf("drop stale database %s: %w", name, err)
		}
	}
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		return nil, fmt.Errorf("create database %s: %w", name, err)
	}

	p.log.Debug("database created", "database", name)
	return &Database{Name: name, URL: postgresURL(conn.Config(), name)}, nil
}

func (p *postgres) Drop(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	conn, err := p.connect(ctx)
	if err != nil {
		return err
	}
	defer p.close(ctx, conn)

	if _, err := conn.Exec(ctx, terminateQuery, name); err != nil {
		return fmt.Errorf("terminate connections to %s: %w", name, err)
	}
	found, err := p.exists(ctx, conn, name)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	if _, err := conn.Exec(ctx, "DROP DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return fmt.Errorf("drop database %s: %w", name, err)
	}
	p.log.Debug("database dropped", "database", name)
	return nil
}

// postgresURL renders a postgresql:// URL for database name reusing the
// control connection's host, port and credentials.
func postgresURL(cfg *pgx.ConnConfig, name string) string {
	u := url.URL{Scheme: "postgresql", Path: "/" + name}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	host := cfg.Host
	if host != "" && host[0] == '/' {
		// Unix socket directory: leave the host empty and pass it as a query.
		q := url.Values{}
		q.Set("host", host)
		u.RawQuery = q.Encode()
		return u.String()
	}
	if cfg.Port != 0 {
		host = net.JoinHostPort(host, strconv.Itoa(int(cfg.Port)))
	}
	u.Host = host
	return u.String()
}
