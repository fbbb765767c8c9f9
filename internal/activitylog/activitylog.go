package activitylog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Entry is one admin action, kept for audit purposes. Writing entries is
// best-effort: a failed write is logged and never surfaced to the admin.
type Entry struct {
	AdminID      string                 `json:"admin_id"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id,omitempty"`
	OldValues    map[string]interface{} `json:"old_values,omitempty"`
	NewValues    map[string]interface{} `json:"new_values,omitempty"`
	IPAddress    string                 `json:"ip_address,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

var _ entryRepo = (*Repo)(nil)

type entryRepo interface {
	Insert(ctx context.Context, entry Entry) error
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Insert(ctx context.Context, entry Entry) error {
	oldValues, err := marshalValues(entry.OldValues)
	if err != nil {
		return err
	}
	newValues, err := marshalValues(entry.NewValues)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO admin_activity_logs
			(admin_id, action, resource_type, resource_id, old_values, new_values, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9);`,
		entry.AdminID, entry.Action, entry.ResourceType, entry.ResourceID,
		oldValues, newValues, entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	)
	return err
}

func marshalValues(values map[string]interface{}) ([]byte, error) {
	if values == nil {
		return nil, nil
	}
	return json.Marshal(values)
}

// Recorder is the write-side used by the handlers
type Recorder struct {
	repo entryRepo
}

func NewRecorder(repo entryRepo) *Recorder {
	return &Recorder{
		repo: repo,
	}
}

// Record stores the entry, swallowing failures
func (rec *Recorder) Record(ctx context.Context, entry Entry) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := rec.repo.Insert(ctx, entry); err != nil {
		log.Warnf("record admin activity [%s %s]: %s", entry.Action, entry.ResourceType, err)
	}
}
