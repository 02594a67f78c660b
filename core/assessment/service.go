package assessment

import (
	"context"

	"github.com/elimu-cd/elimu/core"
)

type (
	// Repository persists tests, items and the edges linking instructors and
	// students to them. Implementations map duplicate composite keys to
	// core.DuplicateKeyError and dangling references to core.ReferentialError.
	Repository interface {
		CreateTest(ctx context.Context, t Test, exec ...core.DBExecutor) (Test, error)
		GetTestByID(ctx context.Context, id int, exec ...core.DBExecutor) (Test, error)
		QueryTests(ctx context.Context, exec ...core.DBExecutor) ([]Test, error)
		QueryTestsByInstructor(ctx context.Context, instructorID int, exec ...core.DBExecutor) ([]Test, error)
		UpdateTest(ctx context.Context, t Test, exec ...core.DBExecutor) error
		DeleteTest(ctx context.Context, id int, exec ...core.DBExecutor) error

		CreateItem(ctx context.Context, it TestItem, exec ...core.DBExecutor) (TestItem, error)
		GetItemByID(ctx context.Context, id int, exec ...core.DBExecutor) (TestItem, error)
		QueryItemsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) ([]TestItem, error)
		UpdateItem(ctx context.Context, it TestItem, exec ...core.DBExecutor) error
		DeleteItem(ctx context.Context, id int, exec ...core.DBExecutor) error

		CreateAuthorship(ctx context.Context, a Authorship, exec ...core.DBExecutor) error
		HasAuthorship(ctx context.Context, instructorID, testID int, exec ...core.DBExecutor) (bool, error)
		DeleteAuthorshipsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) error

		CreateConstruct(ctx context.Context, c Construct, exec ...core.DBExecutor) error
		HasConstruct(ctx context.Context, instructorID, itemID int, exec ...core.DBExecutor) (bool, error)
		QueryConstructsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) ([]Construct, error)
		CountForeignConstructs(ctx context.Context, itemID, testID int, exec ...core.DBExecutor) (int, error)
		DeleteConstructsByTest(ctx context.Context, testID int, exec ...core.DBExecutor) error
		DeleteConstructsByItem(ctx context.Context, itemID int, exec ...core.DBExecutor) error

		CreateTake(ctx context.Context, t Take, exec ...core.DBExecutor) error
		QueryTakesByTest(ctx context.Context, testID int, exec ...core.DBExecutor) ([]Take, error)
		CreateAnswer(ctx context.Context, a Answer, exec ...core.DBExecutor) error
	}

	Service interface {
		CreateTest(ctx context.Context, instructorID int, nt NewTest, term, schoolYear string) (Test, error)
		InstructorTests(ctx context.Context, instructorID int) ([]Test, error)
		GetTest(ctx context.Context, instructorID, testID int) (Test, error)
		UpdateTest(ctx context.Context, instructorID, testID int, ut UpdateTest) (Test, error)
		DeleteTest(ctx context.Context, instructorID, testID int) error

		AddItem(ctx context.Context, instructorID, testID int, ni NewItem, term, schoolYear string) (TestItem, error)
		TestItems(ctx context.Context, instructorID, testID int) ([]TestItem, error)
		UpdateItem(ctx context.Context, instructorID, itemID int, ui UpdateItem) (TestItem, error)
		PublishItem(ctx context.Context, instructorID, itemID int) (TestItem, error)
		DeleteItem(ctx context.Context, instructorID, testID, itemID int) error

		TestResults(ctx context.Context, instructorID, testID int) ([]Take, error)
		RecordTake(ctx context.Context, t Take) error
		RecordAnswer(ctx context.Context, a Answer) error

		QueryAssessments(ctx context.Context) ([]Assessment, error)
	}

	service struct {
		db   core.DB
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(db core.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

// authorizeTest distinguishes a test that does not exist from one the
// instructor does not own. Both serialize identically at the API boundary;
// the distinct error kinds are kept for logs and tests.
func (svc *service) authorizeTest(ctx context.Context, instructorID, testID int, exec ...core.DBExecutor) (Test, error) {
	test, err := svc.repo.GetTestByID(ctx, testID, exec...)
	if err != nil {
		return Test{}, err
	}
	owns, err := svc.repo.HasAuthorship(ctx, instructorID, testID, exec...)
	if err != nil {
		return Test{}, err
	}
	if !owns {
		return Test{}, core.NewAccessDeniedError("test")
	}
	return test, nil
}

// authorizeItem requires a construct edge between the instructor and the item.
func (svc *service) authorizeItem(ctx context.Context, instructorID, itemID int, exec ...core.DBExecutor) (TestItem, error) {
	item, err := svc.repo.GetItemByID(ctx, itemID, exec...)
	if err != nil {
		return TestItem{}, err
	}
	constructs, err := svc.repo.HasConstruct(ctx, instructorID, itemID, exec...)
	if err != nil {
		return TestItem{}, err
	}
	if !constructs {
		return TestItem{}, core.NewAccessDeniedError("test item")
	}
	return item, nil
}

// CreateTest inserts the test and its authorship edge in one transaction so a
// test can never exist without a creating instructor.
func (svc *service) CreateTest(ctx context.Context, instructorID int, nt NewTest, term, schoolYear string) (Test, error) {
	if err := nt.Validate(); err != nil {
		return Test{}, err
	}
	var test Test
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		var err error
		if test, err = svc.repo.CreateTest(ctx, Test{Date: nt.Date}, tx); err != nil {
			return err
		}
		return svc.repo.CreateAuthorship(ctx, Authorship{
			InstructorID: instructorID,
			TestID:       test.ID,
			Term:         term,
			SchoolYear:   schoolYear,
		}, tx)
	})
	if err != nil {
		return Test{}, err
	}
	return test, nil
}

func (svc *service) InstructorTests(ctx context.Context, instructorID int) ([]Test, error) {
	return svc.repo.QueryTestsByInstructor(ctx, instructorID)
}

func (svc *service) GetTest(ctx context.Context, instructorID, testID int) (Test, error) {
	return svc.authorizeTest(ctx, instructorID, testID)
}

func (svc *service) UpdateTest(ctx context.Context, instructorID, testID int, ut UpdateTest) (Test, error) {
	if err := ut.Validate(); err != nil {
		return Test{}, err
	}
	test, err := svc.authorizeTest(ctx, instructorID, testID)
	if err != nil {
		return Test{}, err
	}
	test.Date = ut.Date
	if err = svc.repo.UpdateTest(ctx, test); err != nil {
		return Test{}, err
	}
	return test, nil
}

// DeleteTest removes a test owned by the instructor together with its
// construct and authorship edges. It refuses when any of the test's items is
// referenced by a construct edge under a different test: deleting would orphan
// another instructor's material. The check and the deletes run in one
// transaction so no edge can appear between them.
func (svc *service) DeleteTest(ctx context.Context, instructorID, testID int) error {
	return core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.authorizeTest(ctx, instructorID, testID, tx); err != nil {
			return err
		}
		constructs, err := svc.repo.QueryConstructsByTest(ctx, testID, tx)
		if err != nil {
			return err
		}
		for _, c := range constructs {
			n, err := svc.repo.CountForeignConstructs(ctx, c.TestItemID, testID, tx)
			if err != nil {
				return err
			}
			if n > 0 {
				return core.NewInUseError("test", "its items are used in other tests")
			}
		}
		if err = svc.repo.DeleteConstructsByTest(ctx, testID, tx); err != nil {
			return err
		}
		if err = svc.repo.DeleteAuthorshipsByTest(ctx, testID, tx); err != nil {
			return err
		}
		return svc.repo.DeleteTest(ctx, testID, tx)
	})
}

// AddItem inserts the item and its construct edge in one transaction; the
// edge records which instructor added the item and under which test.
func (svc *service) AddItem(ctx context.Context, instructorID, testID int, ni NewItem, term, schoolYear string) (TestItem, error) {
	if err := ni.Validate(); err != nil {
		return TestItem{}, err
	}
	var item TestItem
	err := core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.authorizeTest(ctx, instructorID, testID, tx); err != nil {
			return err
		}
		var err error
		if item, err = svc.repo.CreateItem(ctx, TestItem{Question: ni.Question, Answer: ni.Answer}, tx); err != nil {
			return err
		}
		return svc.repo.CreateConstruct(ctx, Construct{
			InstructorID: instructorID,
			TestItemID:   item.ID,
			TestID:       testID,
			Term:         term,
			SchoolYear:   schoolYear,
		}, tx)
	})
	if err != nil {
		return TestItem{}, err
	}
	return item, nil
}

func (svc *service) TestItems(ctx context.Context, instructorID, testID int) ([]TestItem, error) {
	if _, err := svc.authorizeTest(ctx, instructorID, testID); err != nil {
		return nil, err
	}
	return svc.repo.QueryItemsByTest(ctx, testID)
}

func (svc *service) UpdateItem(ctx context.Context, instructorID, itemID int, ui UpdateItem) (TestItem, error) {
	if err := ui.Validate(); err != nil {
		return TestItem{}, err
	}
	item, err := svc.authorizeItem(ctx, instructorID, itemID)
	if err != nil {
		return TestItem{}, err
	}
	item.Question = ui.Question
	item.Answer = ui.Answer
	if err = svc.repo.UpdateItem(ctx, item); err != nil {
		return TestItem{}, err
	}
	return item, nil
}

// PublishItem makes the item visible to students taking its tests.
func (svc *service) PublishItem(ctx context.Context, instructorID, itemID int) (TestItem, error) {
	item, err := svc.authorizeItem(ctx, instructorID, itemID)
	if err != nil {
		return TestItem{}, err
	}
	if item.Published {
		return item, nil
	}
	item.Published = true
	if err = svc.repo.UpdateItem(ctx, item); err != nil {
		return TestItem{}, err
	}
	return item, nil
}

// DeleteItem removes an item the instructor constructed, refusing when a
// construct edge references it under a different test.
func (svc *service) DeleteItem(ctx context.Context, instructorID, testID, itemID int) error {
	return core.Atomic(ctx, svc.db, func(tx core.DBTransactor) error {
		if _, err := svc.authorizeItem(ctx, instructorID, itemID, tx); err != nil {
			return err
		}
		n, err := svc.repo.CountForeignConstructs(ctx, itemID, testID, tx)
		if err != nil {
			return err
		}
		if n > 0 {
			return core.NewInUseError("test item", "it is used in other tests")
		}
		if err = svc.repo.DeleteConstructsByItem(ctx, itemID, tx); err != nil {
			return err
		}
		return svc.repo.DeleteItem(ctx, itemID, tx)
	})
}

func (svc *service) TestResults(ctx context.Context, instructorID, testID int) ([]Take, error) {
	if _, err := svc.authorizeTest(ctx, instructorID, testID); err != nil {
		return nil, err
	}
	return svc.repo.QueryTakesByTest(ctx, testID)
}

func (svc *service) RecordTake(ctx context.Context, t Take) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return svc.repo.CreateTake(ctx, t)
}

func (svc *service) RecordAnswer(ctx context.Context, a Answer) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return svc.repo.CreateAnswer(ctx, a)
}

// QueryAssessments lists every test with its items, for administrators.
func (svc *service) QueryAssessments(ctx context.Context) ([]Assessment, error) {
	tests, err := svc.repo.QueryTests(ctx)
	if err != nil {
		return nil, err
	}
	assessments := make([]Assessment, 0, len(tests))
	for _, test := range tests {
		items, err := svc.repo.QueryItemsByTest(ctx, test.ID)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, Assessment{Test: test, Items: items})
	}
	return assessments, nil
}
