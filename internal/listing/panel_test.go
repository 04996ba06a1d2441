package listing

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/isdelr/registrant-portal/internal/backend/backendtest"
	"github.com/isdelr/registrant-portal/internal/models"
	"github.com/isdelr/registrant-portal/internal/validation"
)

type notice struct{ kind, message string }

type recorder struct {
	mu      sync.Mutex
	notices []notice
}

func (r *recorder) Notify(ctx context.Context, kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice{kind, message})
}

func (r *recorder) last() notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return notice{}
	}
	return r.notices[len(r.notices)-1]
}

type PanelSuite struct {
	suite.Suite
	api   *backendtest.Fake
	notes *recorder
	panel *Panel
	ctx   context.Context
}

func TestPanelSuite(t *testing.T) {
	suite.Run(t, new(PanelSuite))
}

func (s *PanelSuite) SetupTest() {
	s.ctx = context.Background()
	s.api = backendtest.New(25)
	s.notes = &recorder{}
	s.panel = NewPanel(s.api, s.notes)
	s.Require().NoError(s.panel.Mount(s.ctx))
}

func (s *PanelSuite) TestMountFetchesOnce() {
	s.True(s.panel.Mounted())
	s.Equal(1, s.api.CallCount("list"))
	s.Len(s.panel.Registrants(), 25)

	s.panel.SetSearch("User")
	s.panel.GoTo(2)
	s.panel.View()
	s.Equal(1, s.api.CallCount("list"))
}

func (s *PanelSuite) TestMountFailureNotifies() {
	api := backendtest.New(3)
	api.FailList = backendtest.ErrUnreachable
	panel := NewPanel(api, s.notes)

	s.Error(panel.Mount(s.ctx))
	s.True(panel.Mounted())
	s.Empty(panel.Registrants())
	s.Equal(notice{models.KindError, MsgFetchFailed}, s.notes.last())
}

func (s *PanelSuite) TestThreePagesOfTwentyFive() {
	v := s.panel.View()
	s.Equal(3, v.TotalPages)
	s.Equal(1, v.Page)

	s.panel.GoTo(3)
	v = s.panel.View()
	s.Require().Len(v.Rows, 5)
	s.Equal("User 21", v.Rows[0].Name)
	s.Equal("User 25", v.Rows[4].Name)
}

func (s *PanelSuite) TestNavigationClamps() {
	s.panel.Previous()
	s.Equal(1, s.panel.Page())

	s.panel.Next()
	s.panel.Next()
	s.panel.Next()
	s.Equal(3, s.panel.Page())

	s.panel.GoTo(99)
	s.Equal(3, s.panel.Page())
	s.panel.GoTo(-1)
	s.Equal(1, s.panel.Page())

	s.panel.GoTo(2)
	s.panel.First()
	s.Equal(1, s.panel.Page())
}

func (s *PanelSuite) TestSearchKeepsPage() {
	s.panel.GoTo(2)
	s.panel.SetSearch("User 2")

	// User 20..25 fit on one page, so the view clamps.
	v := s.panel.View()
	s.Equal("User 2", v.Search)
	s.Equal(1, v.TotalPages)
	s.Equal(1, v.Page)
	s.Len(v.Rows, 6)

	// Clearing the term shows the page that was selected before searching.
	s.panel.SetSearch("")
	s.Equal(2, s.panel.View().Page)
}

func (s *PanelSuite) TestSearchWithNoMatches() {
	s.panel.SetSearch("nobody")
	v := s.panel.View()
	s.Empty(v.Rows)
	s.Equal(0, v.TotalPages)
	s.Empty(s.panel.Filtered())
}

func (s *PanelSuite) TestDeleteRemovesExactlyOne() {
	s.panel.SetSearch("User 0")
	s.Require().NoError(s.panel.Delete(s.ctx, "id-03"))

	s.Len(s.panel.Registrants(), 24)
	s.Len(s.panel.Filtered(), 8)
	for _, r := range s.panel.Registrants() {
		s.NotEqual("id-03", r.ID)
	}
	s.Equal(notice{models.KindSuccess, MsgDeleted}, s.notes.last())
}

func (s *PanelSuite) TestDeleteFailureLeavesState() {
	s.api.FailDelete = backendtest.ErrUnreachable
	before := s.panel.Registrants()

	s.Error(s.panel.Delete(s.ctx, "id-03"))
	s.Equal(before, s.panel.Registrants())
	s.Equal(notice{models.KindError, MsgDeleteFailed}, s.notes.last())
}

func (s *PanelSuite) TestEditPrefillsModal() {
	s.False(s.panel.Edit("missing"))
	s.False(s.panel.View().Modal.Open)

	s.Require().True(s.panel.Edit("id-04"))
	m := s.panel.View().Modal
	s.True(m.Open)
	s.Equal("id-04", m.EditingID)
	s.Equal(validation.Values{
		validation.FieldName:        "User 04",
		validation.FieldDateOfBirth: "",
		validation.FieldEmail:       "user04@example.com",
	}, m.Draft)
}

func (s *PanelSuite) TestUpdateMergesPatch() {
	s.Require().True(s.panel.Edit("id-04"))
	s.panel.SetDraft(validation.Values{
		validation.FieldName:        "Grace Hopper",
		validation.FieldDateOfBirth: "1906-12-09",
		validation.FieldEmail:       "grace@example.com",
		validation.FieldPassword:    "ignored",
	})

	s.Require().NoError(s.panel.Update(s.ctx))
	s.False(s.panel.View().Modal.Open)
	s.Equal(notice{models.KindSuccess, MsgUpdated}, s.notes.last())
	s.Equal("1906-12-09", s.api.LastPatch.DateOfBirth.String())

	var got models.Registrant
	for _, r := range s.panel.Registrants() {
		if r.ID == "id-04" {
			got = r
		}
	}
	s.Equal("Grace Hopper", got.Name)
	s.Equal("grace@example.com", got.Email)

	s.panel.SetSearch("Grace")
	s.Require().Len(s.panel.Filtered(), 1)
	s.Equal("id-04", s.panel.Filtered()[0].ID)
}

func (s *PanelSuite) TestUpdateFailureKeepsModalOpen() {
	s.api.FailUpdate = backendtest.ErrUnreachable
	before := s.panel.Registrants()

	s.Require().True(s.panel.Edit("id-04"))
	s.panel.SetDraft(validation.Values{
		validation.FieldName:        "Changed",
		validation.FieldDateOfBirth: "2000-01-01",
		validation.FieldEmail:       "changed@example.com",
	})

	s.Error(s.panel.Update(s.ctx))
	s.True(s.panel.View().Modal.Open)
	s.Equal(before, s.panel.Registrants())
	s.Equal(notice{models.KindError, MsgUpdateFailed}, s.notes.last())
}

func (s *PanelSuite) TestUpdateInvalidDraftSendsNothing() {
	s.Require().True(s.panel.Edit("id-04"))
	s.panel.SetDraft(validation.Values{validation.FieldName: "", validation.FieldEmail: "bad"})

	s.ErrorIs(s.panel.Update(s.ctx), ErrInvalidDraft)
	s.Zero(s.api.CallCount("update"))
	m := s.panel.View().Modal
	s.True(m.Open)
	s.Equal("Name is required", m.Errors[validation.FieldName])
	s.Equal("Invalid email address", m.Errors[validation.FieldEmail])
}

func (s *PanelSuite) TestUpdateWithoutModal() {
	s.ErrorIs(s.panel.Update(s.ctx), ErrNotEditing)
}

func (s *PanelSuite) TestCancelEdit() {
	s.Require().True(s.panel.Edit("id-04"))
	s.panel.CancelEdit()
	s.False(s.panel.View().Modal.Open)
}

func (s *PanelSuite) TestViewIsACopy() {
	s.Require().True(s.panel.Edit("id-04"))
	v := s.panel.View()
	v.Modal.Draft[validation.FieldName] = "mutated"
	v.Rows[0].Name = "mutated"

	again := s.panel.View()
	s.Equal("User 04", again.Modal.Draft[validation.FieldName])
	s.Equal("User 01", again.Rows[0].Name)
}
