package service_test

import (
	"context"
	"errors"
	"testing"

	"inkwell/api/internal/apperr"
	"inkwell/api/internal/models"
	"inkwell/api/internal/service"
)

func TestUploadStoresMetadataAndRenditions(t *testing.T) {
	images := newFakeImageStore()
	renditions := newFakeRenditionStore()
	queue := &fakeVariantQueue{}
	svc := service.NewImageService(images, renditions, fakeEncoder{}, queue, nopLogger())
	uploader := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	desc := "A tree"
	image, err := svc.Upload(context.Background(), uploader, service.UploadImageInput{
		Data:        []byte("source-bytes"),
		Description: &desc,
		Tags:        []string{"nature"},
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if image.Author != "anna" {
		t.Errorf("author = %q, want anna", image.Author)
	}
	if _, err := images.GetByID(context.Background(), image.ID); err != nil {
		t.Errorf("metadata row missing: %v", err)
	}
	for _, size := range []string{"s", "m", "l"} {
		if _, ok := renditions.objects[size+"/"+image.ID]; !ok {
			t.Errorf("rendition %s missing", size)
		}
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0] != image.ID {
		t.Errorf("expected one encode task for %s, got %v", image.ID, queue.enqueued)
	}
}

func TestUploadSurvivesEnqueueFailure(t *testing.T) {
	images := newFakeImageStore()
	queue := &fakeVariantQueue{err: errors.New("stream unavailable")}
	svc := service.NewImageService(images, newFakeRenditionStore(), fakeEncoder{}, queue, nopLogger())
	uploader := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	// The synchronous renditions are already in place; a failed enqueue
	// only loses the worker rebuild.
	image, err := svc.Upload(context.Background(), uploader, service.UploadImageInput{Data: []byte("source")})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if _, err := images.GetByID(context.Background(), image.ID); err != nil {
		t.Errorf("metadata row missing: %v", err)
	}
}

func TestUploadRejectsUndecodableSource(t *testing.T) {
	svc := service.NewImageService(newFakeImageStore(), newFakeRenditionStore(), fakeEncoder{err: errors.New("not an image")}, &fakeVariantQueue{}, nopLogger())
	uploader := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	_, err := svc.Upload(context.Background(), uploader, service.UploadImageInput{Data: []byte("garbage")})
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("err = %v, want bad request", err)
	}
}

func TestUploadRollsBackOnRenditionFailure(t *testing.T) {
	images := newFakeImageStore()
	renditions := newFakeRenditionStore()
	renditions.failSize = "l"
	renditions.failErr = errors.New("storage unavailable")
	queue := &fakeVariantQueue{}
	svc := service.NewImageService(images, renditions, fakeEncoder{}, queue, nopLogger())
	uploader := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	_, err := svc.Upload(context.Background(), uploader, service.UploadImageInput{Data: []byte("source")})
	if err == nil {
		t.Fatal("expected upload to fail")
	}

	// No metadata row may survive a partial upload, and the renditions
	// that did get written must be cleaned up again.
	if len(images.images) != 0 {
		t.Errorf("metadata row left behind: %v", images.images)
	}
	if len(renditions.objects) != 0 {
		t.Errorf("renditions left behind: %v", renditions.objects)
	}
	if len(queue.enqueued) != 0 {
		t.Errorf("no encode task may be queued for a failed upload, got %v", queue.enqueued)
	}
}

func TestDeleteRemovesRowAndRenditions(t *testing.T) {
	images := newFakeImageStore()
	renditions := newFakeRenditionStore()
	svc := service.NewImageService(images, renditions, fakeEncoder{}, &fakeVariantQueue{}, nopLogger())
	uploader := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})

	image, err := svc.Upload(context.Background(), uploader, service.UploadImageInput{Data: []byte("source")})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := svc.Delete(context.Background(), uploader, image.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(images.images) != 0 || len(renditions.objects) != 0 {
		t.Error("delete must remove the metadata row and every rendition")
	}
}

func TestDeleteByStrangerRejected(t *testing.T) {
	images := newFakeImageStore()
	svc := service.NewImageService(images, newFakeRenditionStore(), fakeEncoder{}, &fakeVariantQueue{}, nopLogger())

	uploader := claimsFor(models.Creator{Username: "anna", Role: models.CreatorRoleWriter})
	image, err := svc.Upload(context.Background(), uploader, service.UploadImageInput{Data: []byte("source")})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	stranger := claimsFor(models.Creator{Username: "bob", Role: models.CreatorRoleWriter})
	if err := svc.Delete(context.Background(), stranger, image.ID); apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("err = %v, want unauthorized", err)
	}

	// A publisher may delete any image.
	publisher := claimsFor(models.Creator{Username: "ed", Role: models.CreatorRolePublisher})
	if err := svc.Delete(context.Background(), publisher, image.ID); err != nil {
		t.Fatalf("publisher delete failed: %v", err)
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	svc := service.NewImageService(newFakeImageStore(), newFakeRenditionStore(), fakeEncoder{}, &fakeVariantQueue{}, nopLogger())

	_, err := svc.Get(context.Background(), "not-a-uuid")
	if apperr.KindOf(err) != apperr.KindBadRequest {
		t.Errorf("err = %v, want bad request", err)
	}
}
