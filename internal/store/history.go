package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"LazyPanda/internal/model"
	"LazyPanda/internal/utils"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// RunSummary 历史记录中的一次运行
type RunSummary struct {
	ID         int64
	Target     string
	TargetKind string
	StartedAt  time.Time
	PingOK     bool
	RTTAvg     string
	HopCount   int
	OpenPorts  int
	ScanMethod string
	Country    string
	City       string
	ReportPath string
}

// History 基于 SQLite 的运行历史
type History struct {
	db     *sql.DB
	path   string
	logger *utils.Logger
}

func OpenHistory(dbPath string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create history directory")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open history database")
	}

	h := &History{
		db:     db,
		path:   dbPath,
		logger: utils.NewLogger("history"),
	}
	if err := h.initTables(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to init history tables")
	}
	return h, nil
}

func (h *History) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		target_kind TEXT,
		started_at TIMESTAMP,
		ping_ok INTEGER,
		rtt_avg TEXT,
		hop_count INTEGER,
		open_ports INTEGER,
		scan_method TEXT,
		country TEXT,
		city TEXT,
		report_path TEXT,
		payload TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS run_ports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		port INTEGER NOT NULL,
		service TEXT,
		source TEXT,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target);
	CREATE INDEX IF NOT EXISTS idx_run_ports_run ON run_ports(run_id);
	`

	_, err := h.db.Exec(schema)
	return err
}

// SaveRun 保存一次运行及其开放端口
func (h *History) SaveRun(r *model.Report) (int64, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return 0, errors.Wrap(err, "failed to encode report")
	}

	tx, err := h.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var country, city string
	if r.Location.Found() {
		country, city = r.Location.Record.Country, r.Location.Record.City
	}

	res, err := tx.Exec(`
		INSERT INTO runs
		(target, target_kind, started_at, ping_ok, rtt_avg, hop_count, open_ports,
		 scan_method, country, city, report_path, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Target, string(r.TargetKind), r.StartedAt, r.Ping.Succeeded, r.Ping.RTTAvg,
		r.Traceroute.HopCount, r.Scan.PortCount, r.Scan.Method,
		country, city, r.PersistedPath, string(payload),
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert run")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, p := range r.Scan.OpenPorts {
		_, err = tx.Exec(`
			INSERT INTO run_ports (run_id, port, service, source)
			VALUES (?, ?, ?, ?)`,
			id, p.Port, p.Service, string(p.Source),
		)
		if err != nil {
			return 0, errors.Wrap(err, "failed to insert port")
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	h.logger.Debug("保存运行记录 #%d (%s)", id, r.Target)
	return id, nil
}

// Recent 最近的运行记录，target 为空时不过滤
func (h *History) Recent(target string, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, target, target_kind, started_at, ping_ok, rtt_avg, hop_count,
	       open_ports, scan_method, country, city, report_path
	FROM runs
	WHERE (? = '' OR target = ?)
	ORDER BY started_at DESC, id DESC
	LIMIT ?
	`

	rows, err := h.db.Query(query, target, target, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var s RunSummary
		err := rows.Scan(&s.ID, &s.Target, &s.TargetKind, &s.StartedAt, &s.PingOK, &s.RTTAvg,
			&s.HopCount, &s.OpenPorts, &s.ScanMethod, &s.Country, &s.City, &s.ReportPath)
		if err != nil {
			h.logger.Debug("跳过无法读取的记录: %v", err)
			continue
		}
		runs = append(runs, s)
	}

	return runs, rows.Err()
}

// Ports 某次运行的开放端口
func (h *History) Ports(runID int64) ([]model.PortFinding, error) {
	rows, err := h.db.Query(`
		SELECT port, service, source FROM run_ports
		WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query ports")
	}
	defer rows.Close()

	ports := []model.PortFinding{}
	for rows.Next() {
		var p model.PortFinding
		var source string
		if err := rows.Scan(&p.Port, &p.Service, &source); err != nil {
			continue
		}
		p.Source = model.PortSource(source)
		ports = append(ports, p)
	}
	return ports, rows.Err()
}

func (h *History) Count() (int, error) {
	var count int
	err := h.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

func (h *History) Close() error {
	return h.db.Close()
}
