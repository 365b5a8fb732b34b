package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"sort"

	"github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/campusvote/internal/errors"
	"github.com/abrezinsky/campusvote/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS election_settings (
			school_id TEXT PRIMARY KEY,
			start_time INTEGER NOT NULL,
			end_time INTEGER NOT NULL,
			is_voting_open BOOLEAN NOT NULL DEFAULT 0,
			CHECK (start_time < end_time)
		)`,
		`CREATE TABLE IF NOT EXISTS voting_categories (
			id TEXT PRIMARY KEY,
			school_id TEXT NOT NULL,
			title TEXT NOT NULL,
			display_order INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(school_id, display_order)
		)`,
		`CREATE TABLE IF NOT EXISTS contestants (
			id TEXT PRIMARY KEY,
			school_id TEXT NOT NULL,
			category_id TEXT NOT NULL,
			name TEXT NOT NULL,
			class TEXT,
			avatar_url TEXT,
			manifesto TEXT,
			votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (category_id) REFERENCES voting_categories(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS vote_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			school_id TEXT NOT NULL,
			student_key TEXT NOT NULL,
			student_id TEXT NOT NULL,
			student_name TEXT,
			choices TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			UNIQUE(school_id, student_key)
		)`,
		`CREATE TABLE IF NOT EXISTS draft_votes (
			school_id TEXT NOT NULL,
			student_key TEXT NOT NULL,
			student_id TEXT NOT NULL,
			choices TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (school_id, student_key)
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			school_id TEXT NOT NULL,
			student_key TEXT NOT NULL,
			student_id TEXT NOT NULL,
			name TEXT NOT NULL,
			class TEXT,
			PRIMARY KEY (school_id, student_key)
		)`,
		`CREATE TABLE IF NOT EXISTS canteen_orders (
			id TEXT PRIMARY KEY,
			school_id TEXT NOT NULL,
			student_key TEXT NOT NULL,
			student_id TEXT NOT NULL,
			item TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id TEXT PRIMARY KEY,
			school_id TEXT,
			actor_id TEXT,
			actor_name TEXT,
			action TEXT NOT NULL,
			details TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_school ON voting_categories(school_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contestants_school ON contestants(school_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contestants_category ON contestants(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_canteen_student ON canteen_orders(school_id, student_key)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_school ON audit_log(school_id, created_at)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Election Settings Methods ====================

// GetElectionSettings returns the settings row for a school
func (r *Repository) GetElectionSettings(ctx context.Context, schoolID string) (*models.ElectionSettings, error) {
	var s models.ElectionSettings
	err := r.db.QueryRowContext(ctx, `
		SELECT school_id, start_time, end_time, is_voting_open
		FROM election_settings WHERE school_id = ?
	`, models.Key(schoolID)).Scan(&s.SchoolID, &s.StartTime, &s.EndTime, &s.IsVotingOpen)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// InsertElectionSettingsIfMissing creates the settings row unless one exists
func (r *Repository) InsertElectionSettingsIfMissing(ctx context.Context, s models.ElectionSettings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO election_settings (school_id, start_time, end_time, is_voting_open)
		VALUES (?, ?, ?, ?)
	`, models.Key(s.SchoolID), s.StartTime, s.EndTime, s.IsVotingOpen)
	return err
}

// SaveElectionSettings creates or replaces the settings row for a school
func (r *Repository) SaveElectionSettings(ctx context.Context, s models.ElectionSettings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO election_settings (school_id, start_time, end_time, is_voting_open)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(school_id) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			is_voting_open = excluded.is_voting_open
	`, models.Key(s.SchoolID), s.StartTime, s.EndTime, s.IsVotingOpen)
	return err
}

// ==================== Category Methods ====================

// ListCategories returns a school's categories in display order
func (r *Repository) ListCategories(ctx context.Context, schoolID string) ([]models.VotingCategory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, school_id, title, display_order
		FROM voting_categories
		WHERE school_id = ?
		ORDER BY display_order, rowid
	`, models.Key(schoolID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.VotingCategory{}
	for rows.Next() {
		var c models.VotingCategory
		if err := rows.Scan(&c.ID, &c.SchoolID, &c.Title, &c.Order); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory returns a category by ID
func (r *Repository) GetCategory(ctx context.Context, id string) (*models.VotingCategory, error) {
	var c models.VotingCategory
	err := r.db.QueryRowContext(ctx, `
		SELECT id, school_id, title, display_order FROM voting_categories WHERE id = ?
	`, id).Scan(&c.ID, &c.SchoolID, &c.Title, &c.Order)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("category not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a category and assigns it the next display order
// for its school. The assigned order is written back into cat.
func (r *Repository) CreateCategory(ctx context.Context, cat *models.VotingCategory) error {
	schoolID := models.Key(cat.SchoolID)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO voting_categories (id, school_id, title, display_order)
		SELECT ?, ?, ?, COALESCE(MAX(display_order), -1) + 1
		FROM voting_categories WHERE school_id = ?
	`, cat.ID, schoolID, cat.Title, schoolID)
	if err != nil {
		return err
	}

	cat.SchoolID = schoolID
	return r.db.QueryRowContext(ctx, `SELECT display_order FROM voting_categories WHERE id = ?`, cat.ID).Scan(&cat.Order)
}

// UpdateCategory renames a category
func (r *Repository) UpdateCategory(ctx context.Context, id, title string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE voting_categories SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "category not found")
}

// DeleteCategory removes a category and all of its contestants
func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM contestants WHERE category_id = ?`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM voting_categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := requireAffected(result, "category not found"); err != nil {
		return err
	}
	return tx.Commit()
}

// CountCategories returns the number of categories configured for a school
func (r *Repository) CountCategories(ctx context.Context, schoolID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voting_categories WHERE school_id = ?`, models.Key(schoolID)).Scan(&count)
	return count, err
}

// ==================== Contestant Methods ====================

// ListContestants returns every contestant in a school, in creation order
func (r *Repository) ListContestants(ctx context.Context, schoolID string) ([]models.Contestant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, school_id, category_id, name, class, avatar_url, manifesto, votes
		FROM contestants
		WHERE school_id = ?
		ORDER BY rowid
	`, models.Key(schoolID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contestants := []models.Contestant{}
	for rows.Next() {
		c, err := scanContestant(rows)
		if err != nil {
			return nil, err
		}
		contestants = append(contestants, *c)
	}
	return contestants, rows.Err()
}

// GetContestant returns a contestant by ID
func (r *Repository) GetContestant(ctx context.Context, id string) (*models.Contestant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, school_id, category_id, name, class, avatar_url, manifesto, votes
		FROM contestants WHERE id = ?
	`, id)
	c, err := scanContestant(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("contestant not found")
	}
	return c, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContestant(row rowScanner) (*models.Contestant, error) {
	var c models.Contestant
	var class, avatarURL, manifesto sql.NullString
	if err := row.Scan(&c.ID, &c.SchoolID, &c.CategoryID, &c.Name, &class, &avatarURL, &manifesto, &c.Votes); err != nil {
		return nil, err
	}
	c.Class = class.String
	c.AvatarURL = avatarURL.String
	c.Manifesto = manifesto.String
	return &c, nil
}

// CreateContestant inserts a contestant with a zero vote count
func (r *Repository) CreateContestant(ctx context.Context, c models.Contestant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contestants (id, school_id, category_id, name, class, avatar_url, manifesto, votes)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`, c.ID, models.Key(c.SchoolID), c.CategoryID, c.Name, c.Class, c.AvatarURL, c.Manifesto)
	return err
}

// UpdateContestant updates a contestant's profile. The vote counter is never touched.
func (r *Repository) UpdateContestant(ctx context.Context, c models.Contestant) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE contestants SET category_id = ?, name = ?, class = ?, avatar_url = ?, manifesto = ?
		WHERE id = ?
	`, c.CategoryID, c.Name, c.Class, c.AvatarURL, c.Manifesto, c.ID)
	if err != nil {
		return err
	}
	return requireAffected(result, "contestant not found")
}

// DeleteContestant removes a contestant
func (r *Repository) DeleteContestant(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contestants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result, "contestant not found")
}

// ==================== Ballot Methods ====================

// SaveDraft creates or overwrites the draft for a school and student
func (r *Repository) SaveDraft(ctx context.Context, draft models.DraftVote) error {
	choices, err := encodeChoices(draft.Choices)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO draft_votes (school_id, student_key, student_id, choices, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(school_id, student_key) DO UPDATE SET
			student_id = excluded.student_id,
			choices = excluded.choices,
			updated_at = excluded.updated_at
	`, models.Key(draft.SchoolID), models.Key(draft.StudentID), draft.StudentID, choices, draft.UpdatedAt)
	return err
}

// GetDraft returns the draft for a school and student
func (r *Repository) GetDraft(ctx context.Context, schoolID, studentID string) (*models.DraftVote, error) {
	var d models.DraftVote
	var choices string
	err := r.db.QueryRowContext(ctx, `
		SELECT school_id, student_id, choices, updated_at
		FROM draft_votes WHERE school_id = ? AND student_key = ?
	`, models.Key(schoolID), models.Key(studentID)).Scan(&d.SchoolID, &d.StudentID, &choices, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.Choices, err = decodeChoices(choices); err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDraft removes a draft. Deleting a missing draft is not an error.
func (r *Repository) DeleteDraft(ctx context.Context, schoolID, studentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM draft_votes WHERE school_id = ? AND student_key = ?`,
		models.Key(schoolID), models.Key(studentID))
	return err
}

// GetVoteRecord returns the final ballot for a school and student
func (r *Repository) GetVoteRecord(ctx context.Context, schoolID, studentID string) (*models.VoteRecord, error) {
	var rec models.VoteRecord
	var name sql.NullString
	var choices string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, school_id, student_id, student_name, choices, created_at
		FROM vote_records WHERE school_id = ? AND student_key = ?
	`, models.Key(schoolID), models.Key(studentID)).Scan(&rec.ID, &rec.SchoolID, &rec.StudentID, &name, &choices, &rec.Timestamp)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.StudentName = name.String
	if rec.Choices, err = decodeChoices(choices); err != nil {
		return nil, err
	}
	return &rec, nil
}

// HasVoted reports whether a final ballot exists for a school and student
func (r *Repository) HasVoted(ctx context.Context, schoolID, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM vote_records WHERE school_id = ? AND student_key = ?)
	`, models.Key(schoolID), models.Key(studentID)).Scan(&exists)
	return exists, err
}

// CommitBallot stores a final ballot in one transaction: it refuses a second
// record for the same key, inserts the record, increments the vote counter of
// every chosen contestant that still exists in the chosen category, and
// removes the student's draft. It returns the number of counters incremented.
func (r *Repository) CommitBallot(ctx context.Context, record *models.VoteRecord) (int, error) {
	schoolID := models.Key(record.SchoolID)
	studentKey := models.Key(record.StudentID)

	choices, err := encodeChoices(record.Choices)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM vote_records WHERE school_id = ? AND student_key = ?)
	`, schoolID, studentKey).Scan(&exists); err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrDuplicateBallot
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO vote_records (school_id, student_key, student_id, student_name, choices, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, schoolID, studentKey, record.StudentID, record.StudentName, choices, record.Timestamp)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateBallot
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	counted := 0
	for _, categoryID := range sortedKeys(record.Choices) {
		result, err := tx.ExecContext(ctx, `
			UPDATE contestants SET votes = votes + 1
			WHERE id = ? AND category_id = ? AND school_id = ?
		`, record.Choices[categoryID], categoryID, schoolID)
		if err != nil {
			return 0, err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}
		counted += int(n)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM draft_votes WHERE school_id = ? AND student_key = ?`, schoolID, studentKey); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	record.ID = id
	record.SchoolID = schoolID
	return counted, nil
}

// BallotStats summarises ballot activity for a school
type BallotStats struct {
	BallotsCast int `json:"ballots_cast"`
	Drafts      int `json:"drafts"`
}

// GetBallotStats counts final ballots and pending drafts for a school
func (r *Repository) GetBallotStats(ctx context.Context, schoolID string) (*BallotStats, error) {
	key := models.Key(schoolID)
	var stats BallotStats
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vote_records WHERE school_id = ?`, key).Scan(&stats.BallotsCast); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM draft_votes WHERE school_id = ?`, key).Scan(&stats.Drafts); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ==================== Student Methods ====================

// GetStudent looks a student up in the local roster
func (r *Repository) GetStudent(ctx context.Context, schoolID, studentID string) (*models.Student, error) {
	var s models.Student
	var class sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT student_id, school_id, name, class
		FROM students WHERE school_id = ? AND student_key = ?
	`, models.Key(schoolID), models.Key(studentID)).Scan(&s.ID, &s.SchoolID, &s.Name, &class)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Class = class.String
	return &s, nil
}

// UpsertStudent creates or updates a roster entry
func (r *Repository) UpsertStudent(ctx context.Context, s models.Student) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (school_id, student_key, student_id, name, class)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(school_id, student_key) DO UPDATE SET
			student_id = excluded.student_id,
			name = excluded.name,
			class = excluded.class
	`, models.Key(s.SchoolID), models.Key(s.ID), s.ID, s.Name, s.Class)
	return err
}

// ListStudents returns a school's roster sorted by name
func (r *Repository) ListStudents(ctx context.Context, schoolID string) ([]models.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT student_id, school_id, name, class
		FROM students WHERE school_id = ?
		ORDER BY name COLLATE NOCASE, student_key
	`, models.Key(schoolID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		var s models.Student
		var class sql.NullString
		if err := rows.Scan(&s.ID, &s.SchoolID, &s.Name, &class); err != nil {
			return nil, err
		}
		s.Class = class.String
		students = append(students, s)
	}
	return students, rows.Err()
}

// DeleteStudent removes a roster entry
func (r *Repository) DeleteStudent(ctx context.Context, schoolID, studentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE school_id = ? AND student_key = ?`,
		models.Key(schoolID), models.Key(studentID))
	if err != nil {
		return err
	}
	return requireAffected(result, "student not found")
}

// ==================== Canteen Methods ====================

// GetActiveCanteenOrder returns the newest pending order for a student
func (r *Repository) GetActiveCanteenOrder(ctx context.Context, schoolID, studentID string) (*models.CanteenOrder, error) {
	var o models.CanteenOrder
	var item sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, school_id, student_id, item, status, created_at
		FROM canteen_orders
		WHERE school_id = ? AND student_key = ? AND status = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, models.Key(schoolID), models.Key(studentID), models.CanteenPending).Scan(&o.ID, &o.SchoolID, &o.StudentID, &item, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Item = item.String
	return &o, nil
}

// CreateCanteenOrder inserts an order
func (r *Repository) CreateCanteenOrder(ctx context.Context, o models.CanteenOrder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO canteen_orders (id, school_id, student_key, student_id, item, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, o.ID, models.Key(o.SchoolID), models.Key(o.StudentID), o.StudentID, o.Item, o.Status, o.CreatedAt)
	return err
}

// MarkCanteenOrderAttended flips a pending order to attended
func (r *Repository) MarkCanteenOrderAttended(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE canteen_orders SET status = ? WHERE id = ? AND status = ?
	`, models.CanteenAttended, id, models.CanteenPending)
	if err != nil {
		return err
	}
	return requireAffected(result, "pending canteen order not found")
}

// ==================== Audit Methods ====================

// InsertAuditEntry appends an entry to the activity log
func (r *Repository) InsertAuditEntry(ctx context.Context, e models.AuditEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, school_id, actor_id, actor_name, action, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, models.Key(e.SchoolID), e.ActorID, e.ActorName, e.Action, e.Details, e.CreatedAt)
	return err
}

// ListAuditEntries returns the newest entries for a school first
func (r *Repository) ListAuditEntries(ctx context.Context, schoolID string, limit int) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, school_id, actor_id, actor_name, action, details, created_at
		FROM audit_log
		WHERE school_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, models.Key(schoolID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		var school, actorID, actorName, details sql.NullString
		if err := rows.Scan(&e.ID, &school, &actorID, &actorName, &e.Action, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.SchoolID = school.String
		e.ActorID = actorID.String
		e.ActorName = actorName.String
		e.Details = details.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ==================== Helpers ====================

func requireAffected(result sql.Result, notFoundMsg string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFound(notFoundMsg)
	}
	return nil
}

func encodeChoices(choices models.Choices) (string, error) {
	if choices == nil {
		choices = models.Choices{}
	}
	data, err := json.Marshal(choices)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeChoices(data string) (models.Choices, error) {
	choices := models.Choices{}
	if data == "" {
		return choices, nil
	}
	if err := json.Unmarshal([]byte(data), &choices); err != nil {
		return nil, err
	}
	return choices, nil
}

func sortedKeys(choices models.Choices) []string {
	keys := make([]string, 0, len(choices))
	for k := range choices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if stderrors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
