package dummydb

import (
	"context"
	"sort"

	"github.com/elimu-cd/elimu/core"
	"github.com/elimu-cd/elimu/core/assessment"
)

type assessmentRepository struct {
	db *DB
}

var _ assessment.Repository = (*assessmentRepository)(nil) // interface compliance check

func NewAssessmentRepository(db *DB) assessment.Repository {
	return &assessmentRepository{db: db}
}

// Tests

func (repo *assessmentRepository) CreateTest(ctx context.Context, t assessment.Test, exec ...core.DBExecutor) (assessment.Test, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	t.ID = repo.db.pk()
	repo.db.tests[t.ID] = &t
	return t, nil
}

func (repo *assessmentRepository) GetTestByID(ctx context.Context, id int, exec ...core.DBExecutor) (assessment.Test, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if t, ok := repo.db.tests[id]; ok {
		return *t, nil
	}
	return assessment.Test{}, core.NewNotFoundError("test")
}

func (repo *assessmentRepository) QueryTests(ctx context.Context, exec ...core.DBExecutor) ([]assessment.Test, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	tests := make([]assessment.Test, 0, len(repo.db.tests))
	for _, t := range repo.db.tests {
		tests = append(tests, *t)
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].ID > tests[j].ID })
	return tests, nil
}

func (repo *assessmentRepository) QueryTestsByInstructor(ctx context.Context, instructorID int, exec ...core.DBExecutor) ([]assessment.Test, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var tests []assessment.Test
	for _, a := range repo.db.authorships {
		if a.InstructorID != instructorID {
			continue
		}
		if t, ok := repo.db.tests[a.TestID]; ok {
			tests = append(tests, *t)
		}
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].ID > tests[j].ID })
	return tests, nil
}

func (repo *assessmentRepository) UpdateTest(ctx context.Context, t assessment.Test, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.tests[t.ID]; !ok {
		return core.NewNotFoundError("test")
	}
	repo.db.tests[t.ID] = &t
	return nil
}

func (repo *assessmentRepository) DeleteTest(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.tests, id)
	return nil
}

// Test items

func (repo *assessmentRepository) CreateItem(ctx context.Context, it assessment.TestItem, exec ...core.DBExecutor) (assessment.TestItem, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	it.ID = repo.db.pk()
	repo.db.items[it.ID] = &it
	return it, nil
}

func (repo *assessmentRepository) GetItemByID(ctx context.Context, id int, exec ...core.DBExecutor) (assessment.TestItem, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if it, ok := repo.db.items[id]; ok {
		return *it, nil
	}
	return assessment.TestItem{}, core.NewNotFoundError("test item")
}

func (repo *assessmentRepository) QueryItemsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) ([]assessment.TestItem, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	seen := make(map[int]bool)
	var items []assessment.TestItem
	for _, c := range repo.db.constructs {
		if c.TestID != testID || seen[c.TestItemID] {
			continue
		}
		seen[c.TestItemID] = true
		if it, ok := repo.db.items[c.TestItemID]; ok {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (repo *assessmentRepository) UpdateItem(ctx context.Context, it assessment.TestItem, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.items[it.ID]; !ok {
		return core.NewNotFoundError("test item")
	}
	repo.db.items[it.ID] = &it
	return nil
}

func (repo *assessmentRepository) DeleteItem(ctx context.Context, id int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	delete(repo.db.items, id)
	return nil
}

// Authorship edges

func (repo *assessmentRepository) CreateAuthorship(ctx context.Context, a assessment.Authorship, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.instructors[a.InstructorID]; !ok {
		return core.NewReferentialError("instructor")
	}
	if _, ok := repo.db.tests[a.TestID]; !ok {
		return core.NewReferentialError("test")
	}
	for _, existing := range repo.db.authorships {
		if existing.InstructorID == a.InstructorID && existing.TestID == a.TestID {
			return core.NewDuplicateKeyError("test authorship")
		}
	}
	repo.db.authorships = append(repo.db.authorships, a)
	return nil
}

func (repo *assessmentRepository) HasAuthorship(ctx context.Context, instructorID, testID int, exec ...core.DBExecutor) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, a := range repo.db.authorships {
		if a.InstructorID == instructorID && a.TestID == testID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *assessmentRepository) DeleteAuthorshipsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	out := repo.db.authorships[:0]
	for _, a := range repo.db.authorships {
		if a.TestID != testID {
			out = append(out, a)
		}
	}
	repo.db.authorships = out
	return nil
}

// Construct edges

func (repo *assessmentRepository) CreateConstruct(ctx context.Context, c assessment.Construct, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.instructors[c.InstructorID]; !ok {
		return core.NewReferentialError("instructor")
	}
	if _, ok := repo.db.items[c.TestItemID]; !ok {
		return core.NewReferentialError("test item")
	}
	if _, ok := repo.db.tests[c.TestID]; !ok {
		return core.NewReferentialError("test")
	}
	for _, existing := range repo.db.constructs {
		if existing.InstructorID == c.InstructorID && existing.TestItemID == c.TestItemID && existing.TestID == c.TestID {
			return core.NewDuplicateKeyError("construct")
		}
	}
	repo.db.constructs = append(repo.db.constructs, c)
	return nil
}

func (repo *assessmentRepository) HasConstruct(ctx context.Context, instructorID, itemID int, exec ...core.DBExecutor) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, c := range repo.db.constructs {
		if c.InstructorID == instructorID && c.TestItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *assessmentRepository) QueryConstructsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) ([]assessment.Construct, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var constructs []assessment.Construct
	for _, c := range repo.db.constructs {
		if c.TestID == testID {
			constructs = append(constructs, c)
		}
	}
	return constructs, nil
}

func (repo *assessmentRepository) CountForeignConstructs(ctx context.Context, itemID, testID int, exec ...core.DBExecutor) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var n int
	for _, c := range repo.db.constructs {
		if c.TestItemID == itemID && c.TestID != testID {
			n++
		}
	}
	return n, nil
}

func (repo *assessmentRepository) DeleteConstructsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.constructs = filterConstructs(repo.db.constructs, func(c assessment.Construct) bool { return c.TestID != testID })
	return nil
}

func (repo *assessmentRepository) DeleteConstructsByItem(ctx context.Context, itemID int, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.constructs = filterConstructs(repo.db.constructs, func(c assessment.Construct) bool { return c.TestItemID != itemID })
	return nil
}

func filterConstructs(in []assessment.Construct, keep func(assessment.Construct) bool) []assessment.Construct {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Takes and answers

func (repo *assessmentRepository) CreateTake(ctx context.Context, t assessment.Take, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[t.StudentID]; !ok {
		return core.NewReferentialError("student")
	}
	if _, ok := repo.db.tests[t.TestID]; !ok {
		return core.NewReferentialError("test")
	}
	for _, existing := range repo.db.takes {
		if existing.StudentID == t.StudentID && existing.TestID == t.TestID {
			return core.NewDuplicateKeyError("test take")
		}
	}
	repo.db.takes = append(repo.db.takes, t)
	return nil
}

func (repo *assessmentRepository) QueryTakesByTest(ctx context.Context, testID int, exec ...core.DBExecutor) ([]assessment.Take, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var takes []assessment.Take
	for _, t := range repo.db.takes {
		if t.TestID == testID {
			takes = append(takes, t)
		}
	}
	sort.Slice(takes, func(i, j int) bool { return takes[i].StudentID < takes[j].StudentID })
	return takes, nil
}

func (repo *assessmentRepository) CreateAnswer(ctx context.Context, a assessment.Answer, exec ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[a.StudentID]; !ok {
		return core.NewReferentialError("student")
	}
	if _, ok := repo.db.items[a.TestItemID]; !ok {
		return core.NewReferentialError("test item")
	}
	for _, existing := range repo.db.answers {
		if existing.StudentID == a.StudentID && existing.TestItemID == a.TestItemID {
			return core.NewDuplicateKeyError("test answer")
		}
	}
	repo.db.answers = append(repo.db.answers, a)
	return nil
}
