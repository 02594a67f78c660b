package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/assessment"
)

type assessmentRepository struct {
	db core.DBExecutor
}

var _ assessment.Repository = (*assessmentRepository)(nil)

func NewAssessmentRepository(db core.DBExecutor) *assessmentRepository {
	return &assessmentRepository{db: db}
}

// Tests

func (repo *assessmentRepository) CreateTest(ctx context.Context, t assessment.Test, exec ...core.DBExecutor) (assessment.Test, error) {
	const query = `INSERT INTO test (test_date) VALUES ($1) RETURNING id`
	if err := executor(repo.db, exec).GetContext(ctx, &t.ID, query, t.Date); err != nil {
		return assessment.Test{}, trapErr(err, "test")
	}
	return t, nil
}

func (repo *assessmentRepository) GetTestByID(ctx context.Context, id int, exec ...core.DBExecutor) (assessment.Test, error) {
	const query = `SELECT id, test_date FROM test WHERE id = $1`
	var t assessment.Test
	if err := executor(repo.db, exec).GetContext(ctx, &t, query, id); err != nil {
		return assessment.Test{}, trapErr(err, "test")
	}
	return t, nil
}

func (repo *assessmentRepository) QueryTests(ctx context.Context, exec ...core.DBExecutor) ([]assessment.Test, error) {
	const query = `SELECT id, test_date FROM test ORDER BY test_date DESC, id DESC`
	var tests []assessment.Test
	if err := executor(repo.db, exec).SelectContext(ctx, &tests, query); err != nil {
		return nil, errors.Wrap(err, "querying tests")
	}
	return tests, nil
}

func (repo *assessmentRepository) QueryTestsByInstructor(ctx context.Context, instructorID int, exec ...core.DBExecutor) ([]assessment.Test, error) {
	const query = `
		SELECT t.id, t.test_date
		FROM test t
		JOIN test_create tc ON tc.test_id = t.id
		WHERE tc.instructor_id = $1
		ORDER BY t.test_date DESC, t.id DESC`
	var tests []assessment.Test
	if err := executor(repo.db, exec).SelectContext(ctx, &tests, query, instructorID); err != nil {
		return nil, errors.Wrap(err, "querying instructor tests")
	}
	return tests, nil
}

func (repo *assessmentRepository) UpdateTest(ctx context.Context, t assessment.Test, exec ...core.DBExecutor) error {
	const query = `UPDATE test SET test_date = $1 WHERE id = $2`
	res, err := executor(repo.db, exec).ExecContext(ctx, query, t.Date, t.ID)
	if err != nil {
		return trapErr(err, "test")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NewNotFoundError("test")
	}
	return nil
}

func (repo *assessmentRepository) DeleteTest(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM test WHERE id = $1`, id)
	return trapErr(err, "test")
}

// Test items

func (repo *assessmentRepository) CreateItem(ctx context.Context, it assessment.TestItem, exec ...core.DBExecutor) (assessment.TestItem, error) {
	const query = `INSERT INTO test_item (question, answer, published) VALUES ($1, $2, $3) RETURNING id`
	if err := executor(repo.db, exec).GetContext(ctx, &it.ID, query, it.Question, it.Answer, it.Published); err != nil {
		return assessment.TestItem{}, trapErr(err, "test item")
	}
	return it, nil
}

func (repo *assessmentRepository) GetItemByID(ctx context.Context, id int, exec ...core.DBExecutor) (assessment.TestItem, error) {
	const query = `SELECT id, question, answer, published FROM test_item WHERE id = $1`
	var it assessment.TestItem
	if err := executor(repo.db, exec).GetContext(ctx, &it, query, id); err != nil {
		return assessment.TestItem{}, trapErr(err, "test item")
	}
	return it, nil
}

func (repo *assessmentRepository) QueryItemsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) ([]assessment.TestItem, error) {
	const query = `
		SELECT DISTINCT i.id, i.question, i.answer, i.published
		FROM test_item i
		JOIN construct c ON c.test_item_id = i.id
		WHERE c.test_id = $1
		ORDER BY i.id`
	var items []assessment.TestItem
	if err := executor(repo.db, exec).SelectContext(ctx, &items, query, testID); err != nil {
		return nil, errors.Wrap(err, "querying test items")
	}
	return items, nil
}

func (repo *assessmentRepository) UpdateItem(ctx context.Context, it assessment.TestItem, exec ...core.DBExecutor) error {
	const query = `UPDATE test_item SET question = $1, answer = $2, published = $3 WHERE id = $4`
	res, err := executor(repo.db, exec).ExecContext(ctx, query, it.Question, it.Answer, it.Published, it.ID)
	if err != nil {
		return trapErr(err, "test item")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NewNotFoundError("test item")
	}
	return nil
}

func (repo *assessmentRepository) DeleteItem(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM test_item WHERE id = $1`, id)
	return trapErr(err, "test item")
}

// Authorship edges

func (repo *assessmentRepository) CreateAuthorship(ctx context.Context, a assessment.Authorship, exec ...core.DBExecutor) error {
	const query = `INSERT INTO test_create (instructor_id, test_id, term, school_year) VALUES ($1, $2, $3, $4)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, a.InstructorID, a.TestID, a.Term, a.SchoolYear)
	return trapErr(err, "test authorship")
}

func (repo *assessmentRepository) HasAuthorship(ctx context.Context, instructorID, testID int, exec ...core.DBExecutor) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM test_create WHERE instructor_id = $1 AND test_id = $2)`
	var owns bool
	if err := executor(repo.db, exec).GetContext(ctx, &owns, query, instructorID, testID); err != nil {
		return false, errors.Wrap(err, "checking test authorship")
	}
	return owns, nil
}

func (repo *assessmentRepository) DeleteAuthorshipsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM test_create WHERE test_id = $1`, testID)
	return errors.Wrap(err, "deleting test authorships")
}

// Construct edges

func (repo *assessmentRepository) CreateConstruct(ctx context.Context, c assessment.Construct, exec ...core.DBExecutor) error {
	const query = `
		INSERT INTO construct (instructor_id, test_item_id, test_id, term, school_year)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, c.InstructorID, c.TestItemID, c.TestID, c.Term, c.SchoolYear)
	return trapErr(err, "construct")
}

func (repo *assessmentRepository) HasConstruct(ctx context.Context, instructorID, itemID int, exec ...core.DBExecutor) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM construct WHERE instructor_id = $1 AND test_item_id = $2)`
	var constructs bool
	if err := executor(repo.db, exec).GetContext(ctx, &constructs, query, instructorID, itemID); err != nil {
		return false, errors.Wrap(err, "checking item construct")
	}
	return constructs, nil
}

func (repo *assessmentRepository) QueryConstructsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) ([]assessment.Construct, error) {
	const query = `
		SELECT instructor_id, test_item_id, test_id, term, school_year
		FROM construct
		WHERE test_id = $1`
	var constructs []assessment.Construct
	if err := executor(repo.db, exec).SelectContext(ctx, &constructs, query, testID); err != nil {
		return nil, errors.Wrap(err, "querying test constructs")
	}
	return constructs, nil
}

func (repo *assessmentRepository) CountForeignConstructs(ctx context.Context, itemID, testID int, exec ...core.DBExecutor) (int, error) {
	const query = `SELECT COUNT(*) FROM construct WHERE test_item_id = $1 AND test_id != $2`
	var n int
	if err := executor(repo.db, exec).GetContext(ctx, &n, query, itemID, testID); err != nil {
		return 0, errors.Wrap(err, "counting foreign constructs")
	}
	return n, nil
}

func (repo *assessmentRepository) DeleteConstructsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM construct WHERE test_id = $1`, testID)
	return errors.Wrap(err, "deleting test constructs")
}

func (repo *assessmentRepository) DeleteConstructsByItem(ctx context.Context, itemID int, exec ...core.DBExecutor) error {
	_, err := executor(repo.db, exec).ExecContext(ctx, `DELETE FROM construct WHERE test_item_id = $1`, itemID)
	return errors.Wrap(err, "deleting item constructs")
}

// Takes and answers

func (repo *assessmentRepository) CreateTake(ctx context.Context, t assessment.Take, exec ...core.DBExecutor) error {
	const query = `INSERT INTO test_take (student_id, test_id, term, school_year) VALUES ($1, $2, $3, $4)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, t.StudentID, t.TestID, t.Term, t.SchoolYear)
	return trapErr(err, "test take")
}

func (repo *assessmentRepository) QueryTakesByTest(ctx context.Context, testID int, exec ...core.DBExecutor) ([]assessment.Take, error) {
	const query = `
		SELECT student_id, test_id, term, school_year
		FROM test_take
		WHERE test_id = $1
		ORDER BY student_id`
	var takes []assessment.Take
	if err := executor(repo.db, exec).SelectContext(ctx, &takes, query, testID); err != nil {
		return nil, errors.Wrap(err, "querying test takes")
	}
	return takes, nil
}

func (repo *assessmentRepository) CreateAnswer(ctx context.Context, a assessment.Answer, exec ...core.DBExecutor) error {
	const query = `
		INSERT INTO test_answer (student_id, test_item_id, term, school_year, response)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := executor(repo.db, exec).ExecContext(ctx, query, a.StudentID, a.TestItemID, a.Term, a.SchoolYear, a.Response)
	return trapErr(err, "test answer")
}
