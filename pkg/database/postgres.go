package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shubhamxshah/arora-the-interview-app/internal/utils"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

var timeNow = func() int64 { return time.Now().Unix() }

const interviewFields = `id, state, etag, avatar_id, resume_text, job_description, ` +
	`candidate_email, clip_timestamp, creator_email, questions, render_ids, ` +
	`video_url, thumbnail_url, candidate_video_url, transcript, summary, ` +
	`error_detail, created_at, updated_at, completed_at`

// Postgres is an interview store backed by postgres.
type Postgres struct {
	opts *Options
	pool *pgxpool.Pool
}

// NewPostgres returns a new Postgres database connection.
func NewPostgres(opts *Options) (*Postgres, error) {
	opts.SetDefaults()
	opts.URL = strings.Replace(opts.URL, "$"+opts.UsernameEnvVar, os.Getenv(opts.UsernameEnvVar), 1)
	opts.URL = strings.Replace(opts.URL, "$"+opts.PasswordEnvVar, os.Getenv(opts.PasswordEnvVar), 1)
	pool, err := pgxpool.New(context.Background(), opts.URL)
	return &Postgres{pool: pool, opts: opts}, err
}

// Close shuts down the database connection.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// Insert writes a newly created interview.
func (p *Postgres) Insert(in *structs.Interview) error {
	qstr := fmt.Sprintf(`INSERT INTO interviews (%s) VALUES (%s);`, interviewFields, placeholders(20))
	args := []interface{}{
		in.ID, in.State, in.ETag, in.AvatarID, in.ResumeText, in.JobDescription,
		in.CandidateEmail, in.Timestamp, in.CreatorEmail, in.Questions, in.RenderIDs,
		in.VideoURL, in.ThumbnailURL, in.CandidateVideoURL, in.Transcript, in.Summary,
		in.Error, in.CreatedAt, in.UpdatedAt, in.CompletedAt,
	}

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, qstr, args...)
	return err
}

// Get returns one interview by id.
func (p *Postgres) Get(id string) (*structs.Interview, error) {
	found, err := p.Interviews(&structs.Query{Limit: 1, IDs: []string{id}})
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, fmt.Errorf("%w interview %s", errors.ErrNotFound, id)
	}
	return found[0], nil
}

// Interviews returns interviews matching the given query.
func (p *Postgres) Interviews(q *structs.Query) ([]*structs.Interview, error) {
	wheres := []string{}
	args := []interface{}{}
	if q.IDs != nil {
		args = append(args, q.IDs)
		wheres = append(wheres, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if q.States != nil {
		states := make([]string, len(q.States))
		for i, s := range q.States {
			states[i] = string(s)
		}
		args = append(args, states)
		wheres = append(wheres, fmt.Sprintf("state = ANY($%d)", len(args)))
	}
	if q.CandidateEmails != nil {
		args = append(args, q.CandidateEmails)
		wheres = append(wheres, fmt.Sprintf("candidate_email = ANY($%d)", len(args)))
	}

	where := ""
	if len(wheres) > 0 {
		where = " WHERE " + strings.Join(wheres, " AND ")
	}
	args = append(args, q.Limit, q.Offset)
	qstr := fmt.Sprintf(`SELECT %s FROM interviews%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d;`,
		interviewFields, where, len(args)-1, len(args))

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, qstr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*structs.Interview{}
	for rows.Next() {
		in, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// Update applies a field patch + state transition in a single UPDATE.
func (p *Postgres) Update(id, etag string, u *Update) (int64, error) {
	sets := []string{"state=$1", "etag=$2", "updated_at=$3"}
	args := []interface{}{u.State, utils.NewRandomID(), timeNow()}

	set := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if u.Questions != nil {
		set("questions", u.Questions)
	}
	if u.RenderIDs != nil {
		set("render_ids", u.RenderIDs)
	}
	if u.VideoURL != "" {
		set("video_url", u.VideoURL)
	}
	if u.ThumbnailURL != "" {
		set("thumbnail_url", u.ThumbnailURL)
	}
	if u.CandidateVideoURL != "" {
		set("candidate_video_url", u.CandidateVideoURL)
	}
	if u.Transcript != "" {
		set("transcript", u.Transcript)
	}
	if u.Summary != "" {
		set("summary", u.Summary)
	}
	if u.CompletedAt != 0 {
		set("completed_at", u.CompletedAt)
	}
	if u.Error != "" {
		set("error_detail", u.Error)
	}

	args = append(args, id)
	where := fmt.Sprintf("id=$%d", len(args))
	if etag != "" {
		args = append(args, etag)
		where = fmt.Sprintf("%s AND etag=$%d", where, len(args))
	}
	qstr := fmt.Sprintf(`UPDATE interviews SET %s WHERE %s;`, strings.Join(sets, ", "), where)

	ctx := context.Background()
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	info, err := conn.Exec(ctx, qstr, args...)
	if err != nil {
		return 0, err
	}
	return info.RowsAffected(), nil
}

func scanInterview(rows pgx.Rows) (*structs.Interview, error) {
	in := &structs.Interview{}
	err := rows.Scan(
		&in.ID, &in.State, &in.ETag, &in.AvatarID, &in.ResumeText, &in.JobDescription,
		&in.CandidateEmail, &in.Timestamp, &in.CreatorEmail, &in.Questions, &in.RenderIDs,
		&in.VideoURL, &in.ThumbnailURL, &in.CandidateVideoURL, &in.Transcript, &in.Summary,
		&in.Error, &in.CreatedAt, &in.UpdatedAt, &in.CompletedAt,
	)
	return in, err
}

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(ps, ", ")
}
