package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iksnae/mychatbot/internal"
	"github.com/iksnae/mychatbot/internal/config"
	"github.com/spf13/cobra"
)

var (
	inspectFormat string
	inspectRaw    bool
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [database-path]",
	Short: "Inspect the sqlite session database",
	Long: `Inspect the sqlite database sessions are saved in.

This command shows:
  • The tables and their schema
  • Every stored key with its size
  • Whether the saved sessions decode, and what they hold

Examples:
  mychatbot inspect                         # Inspect the configured database
  mychatbot inspect ./chat.db --raw         # Also print the stored document
  mychatbot inspect --format json           # Machine-readable report`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := inspectPath(args)
		if err != nil {
			return err
		}
		if _, err := os.Stat(dbPath); err != nil {
			return &internal.StorageError{Path: dbPath, Op: "inspect", Err: err}
		}

		db, err := internal.OpenDatabase(dbPath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		report, err := buildInspectReport(db, dbPath)
		if err != nil {
			return err
		}

		switch inspectFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "text":
			printInspectReport(cmd.OutOrStdout(), report)
			return nil
		default:
			return fmt.Errorf("unsupported format: %s (supported: text, json)", inspectFormat)
		}
	},
}

// inspectPath picks the database from the argument, or from the config when
// the sqlite backend is in use
func inspectPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if storagePath != "" {
		return storagePath, nil
	}
	cfg, err := config.Load(configPath, func(c *config.Config) {
		if backend != "" {
			c.Storage.Backend = backend
		}
	})
	if err != nil {
		return "", err
	}
	if cfg.Storage.Backend != internal.BackendSQLite {
		return "", fmt.Errorf("the %s backend has no database to inspect", cfg.Storage.Backend)
	}
	return cfg.Storage.Path, nil
}

type inspectReport struct {
	Database string         `json:"database"`
	Tables   []tableReport  `json:"tables"`
	Keys     []keyReport    `json:"keys"`
	Sessions *sessionReport `json:"sessions,omitempty"`
}

type tableReport struct {
	Name    string       `json:"name"`
	Rows    int          `json:"rows"`
	Columns []ColumnInfo `json:"columns"`
}

type keyReport struct {
	Key   string `json:"key"`
	Bytes int    `json:"bytes"`
	Value string `json:"value,omitempty"`
}

type sessionReport struct {
	Valid    bool   `json:"valid"`
	Error    string `json:"error,omitempty"`
	Version  int    `json:"version,omitempty"`
	Active   string `json:"activeSessionId,omitempty"`
	Count    int    `json:"sessionCount"`
	Messages int    `json:"messageCount"`
}

func buildInspectReport(db *sql.DB, dbPath string) (*inspectReport, error) {
	report := &inspectReport{Database: dbPath}

	tables, err := getTables(db)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	for _, name := range tables {
		t := tableReport{Name: name}
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", name)).Scan(&t.Rows); err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", name, err)
		}
		if t.Columns, err = getTableSchema(db, name); err != nil {
			return nil, fmt.Errorf("failed to get schema of %s: %w", name, err)
		}
		report.Tables = append(report.Tables, t)
	}

	rows, err := db.Query(`SELECT key, value FROM chatKV ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to read chatKV: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var value sql.NullString
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		k := keyReport{Key: key, Bytes: len(value.String)}
		if inspectRaw {
			k.Value = value.String
		}
		report.Keys = append(report.Keys, k)

		if key == internal.SessionsKey {
			report.Sessions = summarizeSessions([]byte(value.String))
		}
	}
	return report, rows.Err()
}

func summarizeSessions(data []byte) *sessionReport {
	snap, err := internal.DecodeSnapshot(data)
	if err != nil {
		return &sessionReport{Error: err.Error()}
	}
	s := &sessionReport{
		Valid:   true,
		Version: snap.Version,
		Active:  snap.ActiveSessionID,
		Count:   len(snap.Sessions),
	}
	for _, sess := range snap.Sessions {
		s.Messages += len(sess.Messages)
	}
	return s
}

func printInspectReport(w io.Writer, r *inspectReport) {
	_, _ = fmt.Fprintf(w, "📋 Database: %s\n", r.Database)
	_, _ = fmt.Fprintf(w, "📊 Found %d table(s)\n\n", len(r.Tables))

	for _, t := range r.Tables {
		_, _ = fmt.Fprintf(w, "📦 Table: %s (%d rows)\n", t.Name, t.Rows)
		for _, col := range t.Columns {
			pk := ""
			if col.PrimaryKey {
				pk = " [PRIMARY KEY]"
			}
			notNull := ""
			if col.NotNull {
				notNull = " NOT NULL"
			}
			_, _ = fmt.Fprintf(w, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, "🔑 Keys:")
	for _, k := range r.Keys {
		_, _ = fmt.Fprintf(w, "  • %s (%d bytes)\n", k.Key, k.Bytes)
		if k.Value != "" {
			_, _ = fmt.Fprintln(w, k.Value)
		}
	}
	_, _ = fmt.Fprintln(w)

	switch {
	case r.Sessions == nil:
		_, _ = fmt.Fprintln(w, "⚠️  No saved sessions")
	case !r.Sessions.Valid:
		_, _ = fmt.Fprintf(w, "❌ Saved sessions do not decode and will be replaced on next start: %s\n", r.Sessions.Error)
	default:
		_, _ = fmt.Fprintf(w, "✅ Version %d: %d session(s), %d message(s), active %s\n",
			r.Sessions.Version, r.Sessions.Count, r.Sessions.Messages, r.Sessions.Active)
	}
}

func getTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// ColumnInfo describes one column of a table
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"notNull"`
	PrimaryKey bool   `json:"primaryKey"`
}

func getTableSchema(db *sql.DB, tableName string) ([]ColumnInfo, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var cid int
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			continue
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk == 1
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
	inspectCmd.Flags().BoolVar(&inspectRaw, "raw", false, "Print stored values")
}
