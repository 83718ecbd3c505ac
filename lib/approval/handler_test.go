package approvalhandler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	approvalaccess "pm-tools-backend/lib/approval/access"
	"pm-tools-backend/models"
	approvalapimodels "pm-tools-backend/models/api/approval"
	dbmodels "pm-tools-backend/models/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture - общее состояние фейковых хранилищ
type fixture struct {
	approvals   map[string]*dbmodels.Approval
	assignments []*dbmodels.ApprovalAssignment
	history     []dbmodels.ApprovalHistory
	comments    []dbmodels.ApprovalComment
	attachments []dbmodels.ApprovalAttachment
	users       map[string]*dbmodels.CompanyUser
	projects    map[string]*dbmodels.Project
	documents   map[string]*dbmodels.Document

	published   []string
	clonedDocs  []string
	notified    []string
	notifiedMsg []models.NotificationData
	droppedPush int

	seq int

	mu sync.Mutex
}

func newFixture() *fixture {
	return &fixture{
		approvals: map[string]*dbmodels.Approval{},
		users:     map[string]*dbmodels.CompanyUser{},
		projects:  map[string]*dbmodels.Project{},
		documents: map[string]*dbmodels.Document{},
	}
}

func (f *fixture) nextID() string {
	f.seq++
	return fmt.Sprintf("id-%v", f.seq)
}

func (f *fixture) addUser(companyID, id string) {
	f.users[id] = &dbmodels.CompanyUser{
		BaseModel: dbmodels.BaseModel{ID: id},
		CompanyID: companyID,
		FirstName: "Имя",
		LastName:  id,
	}
}

type approvalFake struct{ f *fixture }

func (s approvalFake) Create(rec dbmodels.Approval) (string, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	rec.ID = s.f.nextID()
	rec.CreatedAt = time.Now()
	s.f.approvals[rec.ID] = &rec
	return rec.ID, nil
}

func (s approvalFake) GetByID(companyID, id string) (*dbmodels.Approval, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	rec, ok := s.f.approvals[id]
	if !ok || rec.CompanyID != companyID {
		return nil, nil
	}
	out := *rec
	out.Assignments = nil
	for _, a := range s.f.assignments {
		if a.ApprovalID == id {
			out.Assignments = append(out.Assignments, *a)
		}
	}
	if out.ProjectID != nil {
		out.Project = s.f.projects[*out.ProjectID]
	}
	return &out, nil
}

func (s approvalFake) Update(companyID, id string, updMap map[string]interface{}) error {
	return nil
}

func (s approvalFake) CompleteTransition(companyID, id string, status models.ApprovalStatus, decidedAt time.Time) (bool, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	rec, ok := s.f.approvals[id]
	if !ok || rec.CompanyID != companyID {
		return false, nil
	}
	if rec.Status != models.ApprovalStatusPending {
		return false, nil
	}
	rec.Status = status
	if status == models.ApprovalStatusApproved {
		rec.ApprovedAt = &decidedAt
	} else {
		rec.RejectedAt = &decidedAt
	}
	return true, nil
}

func (s approvalFake) Delete(companyID, id string) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	delete(s.f.approvals, id)
	return nil
}

func (s approvalFake) List(companyID string, scope func(tx *gorm.DB) *gorm.DB, filter approvalapimodels.ApprovalFilter) ([]dbmodels.Approval, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	list := []dbmodels.Approval{}
	for id, rec := range s.f.approvals {
		if rec.CompanyID != companyID {
			continue
		}
		out, _ := s.GetByID(companyID, id)
		list = append(list, *out)
	}
	return list, nil
}

func (s approvalFake) ListCount(companyID string, scope func(tx *gorm.DB) *gorm.DB, filter approvalapimodels.ApprovalFilter) (int64, error) {
	list, _ := s.List(companyID, scope, filter)
	return int64(len(list)), nil
}

type assignmentFake struct{ f *fixture }

func (s assignmentFake) Create(rec dbmodels.ApprovalAssignment) (string, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	rec.ID = s.f.nextID()
	s.f.assignments = append(s.f.assignments, &rec)
	return rec.ID, nil
}

func (s assignmentFake) GetByApprovalAndUser(companyID, approvalID, userID string) (*dbmodels.ApprovalAssignment, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for _, a := range s.f.assignments {
		if a.CompanyID == companyID && a.ApprovalID == approvalID && a.UserID == userID {
			out := *a
			return &out, nil
		}
	}
	return nil, nil
}

func (s assignmentFake) Update(companyID, id string, updMap map[string]interface{}) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for _, a := range s.f.assignments {
		if a.CompanyID == companyID && a.ID == id {
			if v, ok := updMap["status"]; ok {
				a.Status = v.(models.ApprovalStatus)
			}
			if v, ok := updMap["comment"]; ok {
				a.Comment = v.(string)
			}
			if v, ok := updMap["responded_at"]; ok {
				at := v.(time.Time)
				a.RespondedAt = &at
			}
		}
	}
	return nil
}

func (s assignmentFake) DeleteByApproval(companyID, approvalID string) error { return nil }

func (s assignmentFake) List(companyID, approvalID string) ([]dbmodels.ApprovalAssignment, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	list := []dbmodels.ApprovalAssignment{}
	for _, a := range s.f.assignments {
		if a.CompanyID == companyID && a.ApprovalID == approvalID {
			list = append(list, *a)
		}
	}
	return list, nil
}

type historyFake struct{ f *fixture }

func (s historyFake) Create(rec dbmodels.ApprovalHistory) (string, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	rec.ID = s.f.nextID()
	s.f.history = append(s.f.history, rec)
	return rec.ID, nil
}

func (s historyFake) DeleteByApproval(companyID, approvalID string) error { return nil }

func (s historyFake) List(companyID, approvalID string) ([]dbmodels.ApprovalHistory, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	list := []dbmodels.ApprovalHistory{}
	for _, h := range s.f.history {
		if h.CompanyID == companyID && h.ApprovalID == approvalID {
			list = append(list, h)
		}
	}
	return list, nil
}

type commentFake struct{ f *fixture }

func (s commentFake) Create(rec dbmodels.ApprovalComment) (string, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	rec.ID = s.f.nextID()
	s.f.comments = append(s.f.comments, rec)
	return rec.ID, nil
}

func (s commentFake) DeleteByApproval(companyID, approvalID string) error { return nil }

func (s commentFake) List(companyID, approvalID string) ([]dbmodels.ApprovalComment, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	list := []dbmodels.ApprovalComment{}
	for _, c := range s.f.comments {
		if c.CompanyID == companyID && c.ApprovalID == approvalID {
			list = append(list, c)
		}
	}
	return list, nil
}

type attachmentFake struct{ f *fixture }

func (s attachmentFake) Create(rec dbmodels.ApprovalAttachment) (string, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	rec.ID = s.f.nextID()
	s.f.attachments = append(s.f.attachments, rec)
	return rec.ID, nil
}

func (s attachmentFake) GetByID(companyID, id string) (*dbmodels.ApprovalAttachment, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for _, a := range s.f.attachments {
		if a.CompanyID == companyID && a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (s attachmentFake) DeleteByApproval(companyID, approvalID string) error { return nil }

func (s attachmentFake) List(companyID, approvalID string) ([]dbmodels.ApprovalAttachment, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	list := []dbmodels.ApprovalAttachment{}
	for _, a := range s.f.attachments {
		if a.CompanyID == companyID && a.ApprovalID == approvalID {
			list = append(list, a)
		}
	}
	return list, nil
}

type userFake struct{ f *fixture }

func (s userFake) GetByID(id string) (*dbmodels.CompanyUser, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return s.f.users[id], nil
}

func (s userFake) List(companyID string) ([]dbmodels.CompanyUser, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	list := []dbmodels.CompanyUser{}
	for _, u := range s.f.users {
		if u.CompanyID == companyID {
			list = append(list, *u)
		}
	}
	return list, nil
}

func (s userFake) ListByIDs(companyID string, ids []string) ([]dbmodels.CompanyUser, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	list := []dbmodels.CompanyUser{}
	for _, id := range ids {
		if u, ok := s.f.users[id]; ok && u.CompanyID == companyID {
			list = append(list, *u)
		}
	}
	return list, nil
}

type projectFake struct{ f *fixture }

func (s projectFake) GetByID(companyID, id string) (*dbmodels.Project, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	rec, ok := s.f.projects[id]
	if !ok || rec.CompanyID != companyID {
		return nil, nil
	}
	return rec, nil
}

type documentStoreFake struct{ f *fixture }

func (s documentStoreFake) Create(rec dbmodels.Document) (string, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	rec.ID = s.f.nextID()
	s.f.documents[rec.ID] = &rec
	return rec.ID, nil
}

func (s documentStoreFake) GetByID(companyID, id string) (*dbmodels.Document, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	rec, ok := s.f.documents[id]
	if !ok || rec.CompanyID != companyID {
		return nil, nil
	}
	return rec, nil
}

func (s documentStoreFake) Update(companyID, id string, updMap map[string]interface{}) error {
	return nil
}

func (s documentStoreFake) CountByProject(companyID, projectID string) (int64, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	var count int64
	for _, d := range s.f.documents {
		if d.CompanyID == companyID && d.ProjectID != nil && *d.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

type documentHandlerFake struct{ f *fixture }

func (s documentHandlerFake) Publish(companyID, documentID string, publishedAt time.Time) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.published = append(s.f.published, documentID)
	if rec, ok := s.f.documents[documentID]; ok {
		rec.IsPublished = true
		rec.PublishedAt = &publishedAt
	}
	return nil
}

func (s documentHandlerFake) CreateFromAttachment(attachment dbmodels.ApprovalAttachment, projectID, creatorID string, publishedAt time.Time) (string, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.clonedDocs = append(s.f.clonedDocs, attachment.ID)
	id := s.f.nextID()
	s.f.documents[id] = &dbmodels.Document{
		BaseCompanyModel: dbmodels.BaseCompanyModel{
			BaseModel: dbmodels.BaseModel{ID: id},
			CompanyID: attachment.CompanyID,
		},
		Title:       attachment.FileName,
		ProjectID:   &projectID,
		CreatorID:   creatorID,
		IsPublished: true,
		PublishedAt: &publishedAt,
	}
	return id, nil
}

type fileStorageFake struct{ f *fixture }

func (s fileStorageFake) UploadAttachment(ctx context.Context, companyID, approvalID, fileName, contentType string, file []byte) (string, error) {
	return "key-" + fileName, nil
}

func (s fileStorageFake) GetFile(ctx context.Context, companyID, fileKey string) ([]byte, error) {
	return []byte("data"), nil
}

func (s fileStorageFake) MakeCompanyBucket(ctx context.Context, companyID string) error {
	return nil
}

type notifierFake struct{ f *fixture }

func (s notifierFake) Notify(userID string, data models.NotificationData) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.notified = append(s.f.notified, userID)
	s.f.notifiedMsg = append(s.f.notifiedMsg, data)
}

func (s notifierFake) NotifyAll(userIDs []string, data models.NotificationData) {
	for _, id := range userIDs {
		s.Notify(id, data)
	}
}

// brokenNotifierFake - диспетчер, у которого падает каждая доставка
type brokenNotifierFake struct{ f *fixture }

func (s brokenNotifierFake) Notify(userID string, data models.NotificationData) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.droppedPush++
}

func (s brokenNotifierFake) NotifyAll(userIDs []string, data models.NotificationData) {
	for _, id := range userIDs {
		s.Notify(id, data)
	}
}

func newTestHandler(f *fixture) impl {
	return impl{
		store:           approvalFake{f},
		assignmentStore: assignmentFake{f},
		historyStore:    historyFake{f},
		commentStore:    commentFake{f},
		attachmentStore: attachmentFake{f},
		userStore:       userFake{f},
		projectStore:    projectFake{f},
		documentStore:   documentStoreFake{f},
		fileStorage:     fileStorageFake{f},
		notifier:        notifierFake{f},
		transaction: func(fn func(p TxProviders) error) error {
			return fn(TxProviders{
				Store:           approvalFake{f},
				AssignmentStore: assignmentFake{f},
				HistoryStore:    historyFake{f},
				AttachmentStore: attachmentFake{f},
				CommentStore:    commentFake{f},
				DocumentHandler: documentHandlerFake{f},
			})
		},
	}
}

const companyID = "company-1"

func caller(userID string, role models.UserRole) approvalaccess.Caller {
	return approvalaccess.Caller{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}
}

func setupApproval(t *testing.T, f *fixture, h impl, requireAll bool, assignees ...string) string {
	t.Helper()
	data := approvalapimodels.ApprovalCreateData{
		Title:               "Смета по корпусу Б",
		Type:                models.ApprovalTypeBudget,
		RequireAllApprovals: requireAll,
	}
	for _, userID := range assignees {
		f.addUser(companyID, userID)
		data.Assignees = append(data.Assignees, approvalapimodels.AssigneeData{UserID: userID})
	}
	f.addUser(companyID, "creator")
	id, err := h.Create(caller("creator", models.CompanyUserRole), data)
	require.NoError(t, err)
	return id
}

func respond(t *testing.T, h impl, userID, id string, status models.ApprovalStatus) approvalapimodels.ApprovalView {
	t.Helper()
	view, err := h.Respond(caller(userID, models.CompanyUserRole), id, approvalapimodels.ApprovalRespondData{Status: status})
	require.NoError(t, err)
	return view
}

func TestRespondConsensus(t *testing.T) {
	t.Run("unanimous mode completes on last vote", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		docID := f.nextID()
		f.documents[docID] = &dbmodels.Document{
			BaseCompanyModel: dbmodels.BaseCompanyModel{
				BaseModel: dbmodels.BaseModel{ID: docID},
				CompanyID: companyID,
			},
			Title: "Смета",
		}
		for _, userID := range []string{"u1", "u2", "u3"} {
			f.addUser(companyID, userID)
		}
		f.addUser(companyID, "creator")
		id, err := h.Create(caller("creator", models.CompanyUserRole), approvalapimodels.ApprovalCreateData{
			Title:                 "Смета по корпусу Б",
			Type:                  models.ApprovalTypeBudget,
			DocumentID:            docID,
			AutoPublishOnApproval: true,
			RequireAllApprovals:   true,
			Assignees: []approvalapimodels.AssigneeData{
				{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"},
			},
		})
		require.NoError(t, err)

		view := respond(t, h, "u1", id, models.ApprovalStatusApproved)
		require.Equal(t, models.ApprovalStatusPending, view.Status)
		view = respond(t, h, "u2", id, models.ApprovalStatusApproved)
		require.Equal(t, models.ApprovalStatusPending, view.Status)
		require.Empty(t, f.published)

		view = respond(t, h, "u3", id, models.ApprovalStatusApproved)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)
		require.NotNil(t, view.ApprovedAt)
		require.Equal(t, []string{docID}, f.published)
	})

	t.Run("rejection wins and later approvals do not reopen", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		id := setupApproval(t, f, h, true, "u1", "u2", "u3")

		respond(t, h, "u1", id, models.ApprovalStatusApproved)
		view := respond(t, h, "u2", id, models.ApprovalStatusRejected)
		require.Equal(t, models.ApprovalStatusRejected, view.Status)
		require.NotNil(t, view.RejectedAt)

		view = respond(t, h, "u3", id, models.ApprovalStatusApproved)
		require.Equal(t, models.ApprovalStatusRejected, view.Status)
	})

	t.Run("any-one mode completes on first approval", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		id := setupApproval(t, f, h, false, "u1", "u2", "u3")

		view := respond(t, h, "u1", id, models.ApprovalStatusApproved)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)

		// последующие голоса фиксируются, агрегат не меняется
		view = respond(t, h, "u2", id, models.ApprovalStatusRejected)
		require.Equal(t, models.ApprovalStatusApproved, view.Status)
	})
}

func TestCompletionSideEffects(t *testing.T) {
	t.Run("attachments cloned into project library exactly once", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		projectID := f.nextID()
		f.projects[projectID] = &dbmodels.Project{
			BaseCompanyModel: dbmodels.BaseCompanyModel{
				BaseModel: dbmodels.BaseModel{ID: projectID},
				CompanyID: companyID,
			},
			Name: "Корпус Б",
		}
		for _, userID := range []string{"u1", "u2"} {
			f.addUser(companyID, userID)
		}
		f.addUser(companyID, "creator")
		id, err := h.Create(caller("creator", models.CompanyUserRole), approvalapimodels.ApprovalCreateData{
			Title:               "Акты скрытых работ",
			Type:                models.ApprovalTypeDocument,
			ProjectID:           projectID,
			RequireAllApprovals: true,
			Assignees: []approvalapimodels.AssigneeData{
				{UserID: "u1"}, {UserID: "u2"},
			},
		})
		require.NoError(t, err)

		for _, name := range []string{"act1.pdf", "act2.pdf"} {
			_, err = h.UploadAttachment(context.Background(), caller("creator", models.CompanyUserRole), id, name, "application/pdf", []byte("file"))
			require.NoError(t, err)
		}

		respond(t, h, "u1", id, models.ApprovalStatusApproved)
		require.Empty(t, f.clonedDocs)
		respond(t, h, "u2", id, models.ApprovalStatusApproved)
		require.Len(t, f.clonedDocs, 2)

		// повторный голос после завершения не дублирует документы
		respond(t, h, "u1", id, models.ApprovalStatusApproved)
		require.Len(t, f.clonedDocs, 2)

		count, err := documentStoreFake{f}.CountByProject(companyID, projectID)
		require.NoError(t, err)
		require.Equal(t, int64(2), count)
	})

	t.Run("racing responders complete exactly once", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		projectID := f.nextID()
		f.projects[projectID] = &dbmodels.Project{
			BaseCompanyModel: dbmodels.BaseCompanyModel{
				BaseModel: dbmodels.BaseModel{ID: projectID},
				CompanyID: companyID,
			},
			Name: "Корпус Б",
		}
		assignees := []string{"u1", "u2", "u3"}
		for _, userID := range assignees {
			f.addUser(companyID, userID)
		}
		f.addUser(companyID, "creator")
		id, err := h.Create(caller("creator", models.CompanyUserRole), approvalapimodels.ApprovalCreateData{
			Title:     "Акт приемки",
			Type:      models.ApprovalTypeDocument,
			ProjectID: projectID,
			Assignees: []approvalapimodels.AssigneeData{
				{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"},
			},
		})
		require.NoError(t, err)
		_, err = h.UploadAttachment(context.Background(), caller("creator", models.CompanyUserRole), id, "act.pdf", "application/pdf", []byte("file"))
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make(chan error, len(assignees))
		for _, userID := range assignees {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				_, err := h.Respond(caller(userID, models.CompanyUserRole), id, approvalapimodels.ApprovalRespondData{Status: models.ApprovalStatusApproved})
				errs <- err
			}(userID)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		require.Equal(t, models.ApprovalStatusApproved, f.approvals[id].Status)
		require.Len(t, f.clonedDocs, 1)
		count, err := documentStoreFake{f}.CountByProject(companyID, projectID)
		require.NoError(t, err)
		require.Equal(t, int64(1), count)
	})
}

func TestRespondAccess(t *testing.T) {
	t.Run("non-assignee is rejected without state change", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		id := setupApproval(t, f, h, true, "u1", "u2")
		f.addUser(companyID, "outsider")
		historyBefore := len(f.history)

		_, err := h.Respond(caller("outsider", models.CompanyUserRole), id, approvalapimodels.ApprovalRespondData{Status: models.ApprovalStatusApproved})
		require.ErrorIs(t, err, models.ErrForbidden)
		require.Equal(t, models.ApprovalStatusPending, f.approvals[id].Status)
		require.Len(t, f.history, historyBefore)
	})

	t.Run("unknown approval yields not found", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		f.addUser(companyID, "u1")

		_, err := h.Respond(caller("u1", models.CompanyUserRole), "missing", approvalapimodels.ApprovalRespondData{Status: models.ApprovalStatusApproved})
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("invalid decision rejected before any lookup", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		id := setupApproval(t, f, h, true, "u1")

		_, err := h.Respond(caller("u1", models.CompanyUserRole), id, approvalapimodels.ApprovalRespondData{Status: models.ApprovalStatusPending})
		require.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestRespondHistoryAndNotifications(t *testing.T) {
	f := newFixture()
	h := newTestHandler(f)
	id := setupApproval(t, f, h, false, "u1", "u2")

	respond(t, h, "u1", id, models.ApprovalStatusApproved)

	recs, err := h.History(caller("creator", models.CompanyUserRole), id)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, models.ApprovalActionCreated, recs[0].Action)
	require.Equal(t, models.ApprovalActionApproved, recs[1].Action)

	// создателю об ответе, всем участникам и создателю о завершении
	require.Contains(t, f.notified, "creator")
	require.Contains(t, f.notified, "u1")
	require.Contains(t, f.notified, "u2")

	creatorCompleted := false
	for idx, userID := range f.notified {
		if userID == "creator" && f.notifiedMsg[idx].Code == models.PushApprovalCompleted {
			creatorCompleted = true
		}
	}
	require.True(t, creatorCompleted)
}

func TestNotifierFailure(t *testing.T) {
	f := newFixture()
	h := newTestHandler(f)
	h.notifier = brokenNotifierFake{f}
	id := setupApproval(t, f, h, false, "u1")

	view := respond(t, h, "u1", id, models.ApprovalStatusApproved)
	require.Equal(t, models.ApprovalStatusApproved, view.Status)

	// решение и история зафиксированы, хотя ни одно уведомление не ушло
	recs, err := h.History(caller("creator", models.CompanyUserRole), id)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Empty(t, f.notified)
	require.NotZero(t, f.droppedPush)
}

func TestOverrideStatus(t *testing.T) {
	t.Run("restricted to privileged roles", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		id := setupApproval(t, f, h, true, "u1", "u2")

		_, err := h.OverrideStatus(caller("u1", models.CompanyUserRole), id, approvalapimodels.ApprovalOverrideData{Status: models.ApprovalStatusApproved})
		require.ErrorIs(t, err, models.ErrForbidden)
		require.Equal(t, models.ApprovalStatusPending, f.approvals[id].Status)
	})

	t.Run("forces terminal status keeping votes intact", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		id := setupApproval(t, f, h, true, "u1", "u2")
		f.addUser(companyID, "admin")
		respond(t, h, "u1", id, models.ApprovalStatusApproved)

		view, err := h.OverrideStatus(caller("admin", models.CompanyAdminRole), id, approvalapimodels.ApprovalOverrideData{Status: models.ApprovalStatusRejected, Comment: "бюджет пересматривается"})
		require.NoError(t, err)
		require.Equal(t, models.ApprovalStatusRejected, view.Status)

		// голоса не переписаны
		for _, item := range view.Assignments {
			if item.UserID == "u1" {
				require.Equal(t, models.ApprovalStatusApproved, item.Status)
			}
		}

		recs, err := h.History(caller("admin", models.CompanyAdminRole), id)
		require.NoError(t, err)
		require.Equal(t, models.ApprovalActionOverridden, recs[len(recs)-1].Action)
	})

	t.Run("second terminal transition conflicts", func(t *testing.T) {
		f := newFixture()
		h := newTestHandler(f)
		id := setupApproval(t, f, h, false, "u1")
		f.addUser(companyID, "admin")
		respond(t, h, "u1", id, models.ApprovalStatusApproved)

		_, err := h.OverrideStatus(caller("admin", models.CompanyAdminRole), id, approvalapimodels.ApprovalOverrideData{Status: models.ApprovalStatusRejected})
		require.ErrorIs(t, err, models.ErrConflict)
	})
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	h := newTestHandler(f)
	f.addUser(companyID, "creator")

	_, err := h.Create(caller("creator", models.CompanyUserRole), approvalapimodels.ApprovalCreateData{
		Title: "Без участников",
		Type:  models.ApprovalTypeBudget,
	})
	require.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = h.Create(caller("creator", models.CompanyUserRole), approvalapimodels.ApprovalCreateData{
		Title:     "Неизвестный участник",
		Type:      models.ApprovalTypeBudget,
		Assignees: []approvalapimodels.AssigneeData{{UserID: "ghost"}},
	})
	require.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestDeleteCascade(t *testing.T) {
	f := newFixture()
	h := newTestHandler(f)
	id := setupApproval(t, f, h, true, "u1")

	err := h.Delete(caller("creator", models.CompanyUserRole), id)
	require.NoError(t, err)

	_, err = h.GetByID(caller("creator", models.CompanyUserRole), id)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestComments(t *testing.T) {
	f := newFixture()
	h := newTestHandler(f)
	id := setupApproval(t, f, h, true, "u1")

	_, err := h.AddComment(caller("u1", models.CompanyUserRole), id, approvalapimodels.ApprovalCommentData{Comment: "нужна уточненная смета"})
	require.NoError(t, err)

	list, err := h.Comments(caller("u1", models.CompanyUserRole), id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "нужна уточненная смета", list[0].Comment)
}
