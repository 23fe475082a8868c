package service_test

import (
	"context"
	"testing"

	"inkwell/api/internal/apperr"
	"inkwell/api/internal/blocks"
	"inkwell/api/internal/models"
	"inkwell/api/internal/service"
)

func newTextService(texts *fakeTextStore) *service.TextService {
	return service.NewTextService(texts, newFakeImageStore(), nopLogger())
}

func TestCreateTextStartsUnpublished(t *testing.T) {
	texts := newFakeTextStore()
	svc := newTextService(texts)
	writer := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	publish := true
	saved, err := svc.Create(context.Background(), writer, service.SaveTextInput{
		Title:    "First draft",
		TextBody: []blocks.Block{blocks.Paragraph{BodyText: "Hi."}},
		TextType: models.TextTypeArticle,
		Publish:  &publish,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A writer's publish request is ignored, not rejected.
	if saved.IsPublished {
		t.Error("writer must not be able to publish on create")
	}
	if saved.Author != "anna" {
		t.Errorf("author = %q, want anna", saved.Author)
	}
	if saved.TitleSlug != "first-draft" {
		t.Errorf("slug = %q, want first-draft", saved.TitleSlug)
	}
}

func TestCreateTextPublisherMayPublishOnSave(t *testing.T) {
	svc := newTextService(newFakeTextStore())
	publisher := claimsFor(models.Creator{Username: "ed", Role: models.CreatorRolePublisher})

	publish := true
	saved, err := svc.Create(context.Background(), publisher, service.SaveTextInput{
		Title:   "Breaking",
		Publish: &publish,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !saved.IsPublished {
		t.Error("publisher's publish-on-save was not honored")
	}
}

func TestCreateTextRequiresTitle(t *testing.T) {
	svc := newTextService(newFakeTextStore())
	writer := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	_, err := svc.Create(context.Background(), writer, service.SaveTextInput{})
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("err = %v, want bad request", err)
	}
}

func TestEditRecomputesSlugOnTitleChange(t *testing.T) {
	texts := newFakeTextStore(models.Text{
		ID: 5, Title: "Old Title", TitleSlug: "old-title", Author: "anna",
	})
	svc := newTextService(texts)
	writer := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	id := int64(5)
	saved, err := svc.Edit(context.Background(), writer, service.SaveTextInput{
		TextID: &id,
		Title:  "New Title!",
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if saved.TitleSlug != "new-title" {
		t.Errorf("slug = %q, want new-title", saved.TitleSlug)
	}
}

func TestEditPreservesPublishWhenUnspecified(t *testing.T) {
	texts := newFakeTextStore(models.Text{
		ID: 7, Title: "Live", TitleSlug: "live", Author: "anna", IsPublished: true,
	})
	svc := newTextService(texts)
	publisher := claimsFor(models.Creator{Username: "ed", Role: models.CreatorRolePublisher})

	id := int64(7)
	saved, err := svc.Edit(context.Background(), publisher, service.SaveTextInput{
		TextID: &id,
		Title:  "Live",
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !saved.IsPublished {
		t.Error("unspecified publish input must keep the current value")
	}

	// A publisher may explicitly unpublish through an edit.
	publish := false
	saved, err = svc.Edit(context.Background(), publisher, service.SaveTextInput{
		TextID:  &id,
		Title:   "Live",
		Publish: &publish,
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if saved.IsPublished {
		t.Error("publisher's explicit unpublish was not honored")
	}
}

func TestEditIgnoresWriterPublishInput(t *testing.T) {
	texts := newFakeTextStore(models.Text{
		ID: 3, Title: "Draft", TitleSlug: "draft", Author: "anna",
	})
	svc := newTextService(texts)
	writer := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	id := int64(3)
	publish := true
	saved, err := svc.Edit(context.Background(), writer, service.SaveTextInput{
		TextID:  &id,
		Title:   "Draft",
		Publish: &publish,
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if saved.IsPublished {
		t.Error("writer's publish input must be ignored on edit")
	}
}

func TestEditPreservesDoneFlag(t *testing.T) {
	texts := newFakeTextStore(models.Text{
		ID: 11, Title: "Ready", TitleSlug: "ready", Author: "anna", MarkedAsDone: true,
	})
	svc := newTextService(texts)

	// A non-author publisher editing with the flag unspecified must not
	// clear it; done moves only through MarkDone/UnmarkDone.
	publisher := claimsFor(models.Creator{Username: "ed", Role: models.CreatorRolePublisher})
	id := int64(11)
	saved, err := svc.Edit(context.Background(), publisher, service.SaveTextInput{
		TextID: &id,
		Title:  "Ready",
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !saved.MarkedAsDone {
		t.Error("edit cleared the done flag")
	}

	// Nor can an edit set it, even by the author.
	author := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})
	if err := svc.UnmarkDone(context.Background(), author, 11); err != nil {
		t.Fatalf("unmark failed: %v", err)
	}
	saved, err = svc.Edit(context.Background(), author, service.SaveTextInput{
		TextID:       &id,
		Title:        "Ready",
		MarkedAsDone: true,
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if saved.MarkedAsDone {
		t.Error("edit must not set the done flag")
	}
}

func TestEditPublishedTextRequiresPublisher(t *testing.T) {
	texts := newFakeTextStore(models.Text{
		ID: 9, Title: "Live", TitleSlug: "live", Author: "anna", IsPublished: true,
	})
	svc := newTextService(texts)
	author := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	id := int64(9)
	_, err := svc.Edit(context.Background(), author, service.SaveTextInput{TextID: &id, Title: "Live"})
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("err = %v, want unauthorized", err)
	}
}

func TestEditByStrangerRejected(t *testing.T) {
	texts := newFakeTextStore(models.Text{
		ID: 2, Title: "Mine", TitleSlug: "mine", Author: "anna",
	})
	svc := newTextService(texts)
	stranger := claimsFor(models.Creator{Username: "bob", Role: models.CreatorRoleWriter})

	id := int64(2)
	_, err := svc.Edit(context.Background(), stranger, service.SaveTextInput{TextID: &id, Title: "Mine"})
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("err = %v, want unauthorized", err)
	}
}

func TestMarkDoneAuthorOnly(t *testing.T) {
	texts := newFakeTextStore(models.Text{ID: 1, Title: "Draft", Author: "anna"})
	svc := newTextService(texts)

	// Even a publisher cannot flip the done flag on someone else's text.
	publisher := claimsFor(models.Creator{Username: "ed", Role: models.CreatorRolePublisher})
	if err := svc.MarkDone(context.Background(), publisher, 1); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("err = %v, want unauthorized", err)
	}

	author := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})
	if err := svc.MarkDone(context.Background(), author, 1); err != nil {
		t.Fatalf("author mark done failed: %v", err)
	}

	text, _ := texts.GetByID(context.Background(), 1)
	if !text.MarkedAsDone {
		t.Error("done flag not set")
	}

	// Marking twice is a client error.
	if err := svc.MarkDone(context.Background(), author, 1); apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("err = %v, want bad request", err)
	}
}

func TestUnmarkDoneBlockedWhenPublished(t *testing.T) {
	texts := newFakeTextStore(models.Text{
		ID: 4, Title: "Live", Author: "anna", MarkedAsDone: true, IsPublished: true,
	})
	svc := newTextService(texts)
	author := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	if err := svc.UnmarkDone(context.Background(), author, 4); apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("err = %v, want bad request", err)
	}
}

func TestUnmarkDoneReturnsToDraft(t *testing.T) {
	texts := newFakeTextStore(models.Text{
		ID: 6, Title: "Done", Author: "anna", MarkedAsDone: true,
	})
	svc := newTextService(texts)
	author := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	if err := svc.UnmarkDone(context.Background(), author, 6); err != nil {
		t.Fatalf("unmark failed: %v", err)
	}
	text, _ := texts.GetByID(context.Background(), 6)
	if text.MarkedAsDone {
		t.Error("done flag not cleared")
	}
}

func TestSetPublishStatusPublisherOnly(t *testing.T) {
	texts := newFakeTextStore(models.Text{ID: 8, Title: "Ready", Author: "anna", MarkedAsDone: true})
	svc := newTextService(texts)

	writer := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})
	if err := svc.SetPublishStatus(context.Background(), writer, 8, true); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("err = %v, want unauthorized", err)
	}

	publisher := claimsFor(models.Creator{Username: "ed", Role: models.CreatorRolePublisher})
	if err := svc.SetPublishStatus(context.Background(), publisher, 8, true); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	text, _ := texts.GetByID(context.Background(), 8)
	if !text.IsPublished {
		t.Error("publish flag not set")
	}
}

func TestEditMissingTextIsNotFound(t *testing.T) {
	svc := newTextService(newFakeTextStore())
	publisher := claimsFor(models.Creator{Username: "ed", Role: models.CreatorRolePublisher})

	id := int64(404)
	_, err := svc.Edit(context.Background(), publisher, service.SaveTextInput{TextID: &id, Title: "x"})
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("err = %v, want not found", err)
	}
}
