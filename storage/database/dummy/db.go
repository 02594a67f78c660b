package dummydb

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/academics"
	"github.com/elimu-cd/elimu/core/assessment"
	"github.com/elimu-cd/elimu/core/catalog"
	"github.com/elimu-cd/elimu/core/user"
)

// DB is an in-memory store for tests. It satisfies core.DB so services can
// run their transactional flows unchanged; transactions are no-ops since
// every mutation applies immediately under the DB lock.
type DB struct {
	mu sync.RWMutex

	users map[string]*user.User

	programs    map[int]*catalog.Program
	students    map[int]*catalog.Student
	courses     map[int]*catalog.Course
	lessons     map[int]*catalog.Lesson
	instructors map[int]*catalog.Instructor

	tests map[int]*assessment.Test
	items map[int]*assessment.TestItem

	studies       []academics.Study
	enrollments   []academics.Enrollment
	offers        []academics.Offer
	teaches       []academics.Teach
	courseLessons []academics.CourseLesson
	lessonTests   []academics.LessonTest
	lessonItems   []academics.LessonItem

	authorships []assessment.Authorship
	constructs  []assessment.Construct
	takes       []assessment.Take
	answers     []assessment.Answer

	nextID int
}

func Open() (*DB, error) {
	db := &DB{
		users:       make(map[string]*user.User),
		programs:    make(map[int]*catalog.Program),
		students:    make(map[int]*catalog.Student),
		courses:     make(map[int]*catalog.Course),
		lessons:     make(map[int]*catalog.Lesson),
		instructors: make(map[int]*catalog.Instructor),
		tests:       make(map[int]*assessment.Test),
		items:       make(map[int]*assessment.TestItem),
	}
	return db, nil
}

func (db *DB) pk() int {
	db.nextID++
	return db.nextID
}

// Reset empties the store between tests.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.users = make(map[string]*user.User)
	db.programs = make(map[int]*catalog.Program)
	db.students = make(map[int]*catalog.Student)
	db.courses = make(map[int]*catalog.Course)
	db.lessons = make(map[int]*catalog.Lesson)
	db.instructors = make(map[int]*catalog.Instructor)
	db.tests = make(map[int]*assessment.Test)
	db.items = make(map[int]*assessment.TestItem)
	db.studies = nil
	db.enrollments = nil
	db.offers = nil
	db.teaches = nil
	db.courseLessons = nil
	db.lessonTests = nil
	db.lessonItems = nil
	db.authorships = nil
	db.constructs = nil
	db.takes = nil
	db.answers = nil
	db.nextID = 0
}

var _ core.DB = (*DB)(nil)

func (db *DB) Begin(ctx context.Context) (core.DBTransactor, error) {
	return nopTx{db}, nil
}

type nopTx struct {
	*DB
}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

// The raw SQL surface is never exercised by the in-memory repositories.

var errNoSQL = errors.New("in-memory database does not speak SQL")

func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (db *DB) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, errNoSQL
}

func (db *DB) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return nil
}

func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return errNoSQL
}

func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return errNoSQL
}
