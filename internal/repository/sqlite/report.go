package sqlite

import (
	"context"
	"fmt"

	"github.com/iitconnect/iitconnect/pkg/models"
)

func (r *SQLiteRepo) CreateReport(ctx context.Context, rep *models.Report) (int64, error) {
	if rep == nil {
		return 0, fmt.Errorf("report is nil")
	}
	rep.Created = now()
	if rep.Status == "" {
		rep.Status = "pending"
	}
	res, err := r.conn.Exec(ctx, `INSERT INTO reports (reporter, post_id, reason, details, status, created) VALUES (?, ?, ?, ?, ?, ?)`,
		rep.Reporter, rep.PostID, rep.Reason, rep.Details, rep.Status, rep.Created)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) ListReports(ctx context.Context) ([]models.Report, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, reporter, post_id, reason, details, status, created FROM reports ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Report
	for rows.Next() {
		var rep models.Report
		if err := rows.Scan(&rep.ID, &rep.Reporter, &rep.PostID, &rep.Reason, &rep.Details, &rep.Status, &rep.Created); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CreateCourseRequest(ctx context.Context, cr *models.CourseRequest) (int64, error) {
	if cr == nil {
		return 0, fmt.Errorf("course request is nil")
	}
	cr.Created = now()
	res, err := r.conn.Exec(ctx, `INSERT INTO course_requests (username, course_name, reason, created) VALUES (?, ?, ?, ?)`,
		cr.Username, cr.CourseName, cr.Reason, cr.Created)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) ListCourseRequests(ctx context.Context) ([]models.CourseRequest, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, username, course_name, reason, created FROM course_requests ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CourseRequest
	for rows.Next() {
		var cr models.CourseRequest
		if err := rows.Scan(&cr.ID, &cr.Username, &cr.CourseName, &cr.Reason, &cr.Created); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}
