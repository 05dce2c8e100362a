package service

import "context"

// mutationOp identifies which rule column of an entity's check table
// applies. Each service builds its table at construction time so the gaps
// between operations (update paths that skip checks the create path runs)
// stay visible in one place instead of being scattered through handlers.
type mutationOp string

const (
	opCreate mutationOp = "create"
	opUpdate mutationOp = "update"
	opDelete mutationOp = "delete"
)

// snapshotStore is the advisory full-list cache shared by the services.
// It is never consulted for validation; a nil store disables it.
type snapshotStore interface {
	Get(ctx context.Context, entity string, dest interface{}) error
	Set(ctx context.Context, entity string, value interface{}) error
	Invalidate(ctx context.Context, entity string)
}

const (
	snapshotStudents    = "students"
	snapshotSubjects    = "subjects"
	snapshotEnrollments = "enrollments"
)
