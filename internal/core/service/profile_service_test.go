package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\nfake-image-body")

func newProfileService(repo *stubProfileRepo, images *stubImageStore, opts ...ProfileOption) *ProfileService {
	return NewProfileService(repo, images, testHasher(), nopLog, opts...)
}

func validInput() ports.CreateProfileInput {
	return ports.CreateProfileInput{
		Name:     "Ada Lovelace",
		Email:    "a@x.com",
		Password: "s3cret",
		Address:  "12 St James's Square",
	}
}

func TestProfileService_Create_Success(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore())

	p, err := svc.CreateProfile(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateProfile returned error: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("expected an id to be assigned")
	}
	if p.PasswordHash == "" || p.PasswordHash == "s3cret" {
		t.Fatalf("expected password to be hashed, got %q", p.PasswordHash)
	}
	if p.Image != nil {
		t.Fatalf("expected no image")
	}
}

func TestProfileService_Create_Validation(t *testing.T) {
	svc := newProfileService(newStubProfileRepo(), newStubImageStore())

	tests := []struct {
		name   string
		mutate func(in *ports.CreateProfileInput)
		want   string
	}{
		{"blank name", func(in *ports.CreateProfileInput) { in.Name = "   " }, "Name must not be blank"},
		{"blank email", func(in *ports.CreateProfileInput) { in.Email = "" }, "Email must be a valid format"},
		{"bad email", func(in *ports.CreateProfileInput) { in.Email = "not-an-email" }, "Email must be a valid format"},
		{"missing password", func(in *ports.CreateProfileInput) { in.Password = "" }, "Password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.CreateProfile(context.Background(), in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Message != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, ve.Message)
			}
		})
	}
}

func TestProfileService_Create_DuplicateEmail(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore())

	first, err := svc.CreateProfile(context.Background(), validInput())
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	dup := validInput()
	dup.Name = "Someone Else"
	_, err = svc.CreateProfile(context.Background(), dup)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || !strings.Contains(ve.Message, "already in use") {
		t.Fatalf("expected already-in-use ValidationError, got %v", err)
	}

	stored, err := svc.GetProfile(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if stored.Name != "Ada Lovelace" || stored.Version != first.Version {
		t.Fatalf("first record changed: %+v", stored)
	}
	if len(repo.profiles) != 1 {
		t.Fatalf("expected 1 stored profile, got %d", len(repo.profiles))
	}
}

func TestProfileService_Create_DuplicateEmailDiscardsUploadedImage(t *testing.T) {
	repo := newStubProfileRepo()
	images := newStubImageStore()
	svc := newProfileService(repo, images)

	if _, err := svc.CreateProfile(context.Background(), validInput()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	dup := validInput()
	dup.Image = &ports.ImageUpload{FileName: "me.png", ContentType: "image/png", Data: pngBytes}
	if _, err := svc.CreateProfile(context.Background(), dup); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if len(images.objects) != 0 || len(images.deleted) != 1 {
		t.Fatalf("expected uploaded object to be removed, objects=%v deleted=%v", images.objects, images.deleted)
	}
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	svc := newProfileService(newStubProfileRepo(), newStubImageStore())

	_, err := svc.GetProfile(context.Background(), 9999)
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Error() != "Profile with ID 9999 not found" {
		t.Fatalf("unexpected message: %s", nf.Error())
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected errors.Is ErrNotFound")
	}
}

func TestProfileService_Image_OctetStreamExtensionFallback(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore())

	in := validInput()
	in.Image = &ports.ImageUpload{FileName: "photo.PNG", ContentType: "application/octet-stream", Data: pngBytes}

	p, err := svc.CreateProfile(context.Background(), in)
	if err != nil {
		t.Fatalf("expected upload to be accepted, got %v", err)
	}
	if p.Image == nil {
		t.Fatalf("expected image to be attached")
	}
	if p.Image.ContentType != "image/png" || p.Image.Extension != "png" {
		t.Fatalf("unexpected image metadata: %+v", p.Image)
	}
	if len(p.Image.Checksum) != 64 {
		t.Fatalf("expected blake3 hex checksum, got %q", p.Image.Checksum)
	}
}

func TestProfileService_Image_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		upload ports.ImageUpload
		want   string
	}{
		{"gif content type", ports.ImageUpload{FileName: "a.gif", ContentType: "image/gif", Data: []byte("GIF")}, "Only JPEG and PNG images are allowed (Content-Type: image/gif, Extension: gif)"},
		{"octet stream with bad extension", ports.ImageUpload{FileName: "a.bmp", ContentType: "application/octet-stream", Data: []byte("BM")}, "Only JPEG and PNG images are allowed (Content-Type: application/octet-stream, Extension: bmp)"},
		{"known extension but other type", ports.ImageUpload{FileName: "a.png", ContentType: "text/plain", Data: []byte("x")}, "Only JPEG and PNG images are allowed (Content-Type: text/plain, Extension: png)"},
		{"too large", ports.ImageUpload{FileName: "a.png", ContentType: "image/png", Data: pngBytes}, "Image must not exceed 8 bytes"},
		{"empty", ports.ImageUpload{FileName: "a.png", ContentType: "image/png"}, "Image file is required"},
	}

	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore(), WithMaxImageBytes(8))
	p, err := svc.CreateProfile(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProfileImage(context.Background(), p.ID, tt.upload)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Message != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, ve.Message)
			}
		})
	}
}

func TestProfileService_Image_AcceptsJPEGWithoutContentType(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore())
	p, _ := svc.CreateProfile(context.Background(), validInput())

	updated, err := svc.UpdateProfileImage(context.Background(), p.ID, ports.ImageUpload{FileName: "me.JPG", Data: []byte{0xff, 0xd8, 0xff}})
	if err != nil {
		t.Fatalf("UpdateProfileImage: %v", err)
	}
	if updated.Image.ContentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %s", updated.Image.ContentType)
	}
}

func TestProfileService_UpdateImage_ReplacesAndCleansUp(t *testing.T) {
	repo := newStubProfileRepo()
	images := newStubImageStore()
	cleaner := &recordingCleaner{}
	svc := newProfileService(repo, images, WithImageCleaner(cleaner))

	in := validInput()
	in.Image = &ports.ImageUpload{FileName: "one.png", ContentType: "image/png", Data: pngBytes}
	p, err := svc.CreateProfile(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	oldKey := p.Image.ObjectKey

	updated, err := svc.UpdateProfileImage(context.Background(), p.ID, ports.ImageUpload{FileName: "two.jpeg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}})
	if err != nil {
		t.Fatalf("update image: %v", err)
	}
	if updated.Image.FileName != "two.jpeg" || updated.Image.ObjectKey == oldKey {
		t.Fatalf("image not replaced: %+v", updated.Image)
	}
	if len(cleaner.keys) != 1 || cleaner.keys[0] != oldKey {
		t.Fatalf("expected old image %s to be queued for cleanup, got %v", oldKey, cleaner.keys)
	}
}

func TestProfileService_UpdateImage_NotFound(t *testing.T) {
	images := newStubImageStore()
	svc := newProfileService(newStubProfileRepo(), images)

	_, err := svc.UpdateProfileImage(context.Background(), 42, ports.ImageUpload{FileName: "a.png", ContentType: "image/png", Data: pngBytes})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(images.objects) != 0 {
		t.Fatalf("expected uploaded object to be discarded")
	}
}

func TestProfileService_UpdateProfile(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore())

	p, _ := svc.CreateProfile(context.Background(), validInput())
	oldHash := p.PasswordHash

	updated, err := svc.UpdateProfile(context.Background(), p.ID, ports.UpdateProfileInput{
		Name:    "Ada King",
		Email:   "ADA@X.COM",
		Address: "Ockham Park",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "Ada King" || updated.Email != "ada@x.com" || updated.Address != "Ockham Park" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.PasswordHash != oldHash {
		t.Fatalf("password should be kept when not supplied")
	}

	updated, err = svc.UpdateProfile(context.Background(), p.ID, ports.UpdateProfileInput{Name: "Ada King", Email: "ada@x.com", Password: "n3w"})
	if err != nil {
		t.Fatalf("UpdateProfile with password: %v", err)
	}
	if updated.PasswordHash == oldHash {
		t.Fatalf("password should be re-hashed")
	}
}

func TestProfileService_UpdateProfile_EmailConflict(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore())

	_, _ = svc.CreateProfile(context.Background(), validInput())
	other := validInput()
	other.Email = "b@x.com"
	second, _ := svc.CreateProfile(context.Background(), other)

	_, err := svc.UpdateProfile(context.Background(), second.ID, ports.UpdateProfileInput{Name: "B", Email: "a@x.com"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Message != "Email a@x.com is already in use" {
		t.Fatalf("expected email conflict, got %v", err)
	}
}

func TestProfileService_CreateSimpleProfile(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore())

	p, err := svc.CreateSimpleProfile(context.Background(), ports.SimpleProfileInput{Name: "Grace", Email: "grace@x.com"})
	if err != nil {
		t.Fatalf("CreateSimpleProfile: %v", err)
	}
	if p.PasswordHash == "" {
		t.Fatalf("expected a placeholder credential hash")
	}
	if err := testHasher().Compare(p.PasswordHash, "default_password"); err == nil {
		t.Fatalf("placeholder credential must not be guessable")
	}
}

func TestProfileService_DeleteProfile(t *testing.T) {
	repo := newStubProfileRepo()
	images := newStubImageStore()
	svc := newProfileService(repo, images)

	in := validInput()
	in.Image = &ports.ImageUpload{FileName: "a.png", ContentType: "image/png", Data: pngBytes}
	p, _ := svc.CreateProfile(context.Background(), in)

	if err := svc.DeleteProfile(context.Background(), p.ID); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if len(images.deleted) != 1 {
		t.Fatalf("expected image to be deleted with the profile")
	}
	if err := svc.DeleteProfile(context.Background(), p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestProfileService_GetProfileImage(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore())

	plain, _ := svc.CreateProfile(context.Background(), validInput())
	if _, err := svc.GetProfileImage(context.Background(), plain.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for profile without image, got %v", err)
	}

	in := validInput()
	in.Email = "img@x.com"
	in.Image = &ports.ImageUpload{FileName: "a.png", ContentType: "image/png", Data: pngBytes}
	withImage, _ := svc.CreateProfile(context.Background(), in)

	content, err := svc.GetProfileImage(context.Background(), withImage.ID)
	if err != nil {
		t.Fatalf("GetProfileImage: %v", err)
	}
	if string(content.Data) != string(pngBytes) || content.ContentType != "image/png" {
		t.Fatalf("unexpected image content: %+v", content)
	}
}

func TestProfileService_ListAndReport(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore())

	for _, email := range []string{"1@x.com", "2@x.com", "3@x.com", "4@x.com", "5@x.com", "6@x.com", "7@x.com"} {
		in := validInput()
		in.Email = email
		in.Address = ""
		if _, err := svc.CreateProfile(context.Background(), in); err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
	}

	page, err := svc.ListProfiles(context.Background(), domain.PageRequest{Page: 1, Size: 5})
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(page.Items) != 2 || page.Total != 7 || page.TotalPages != 2 {
		t.Fatalf("unexpected page: items=%d total=%d pages=%d", len(page.Items), page.Total, page.TotalPages)
	}

	report, err := svc.Report(context.Background(), &domain.PageRequest{Page: 1, Size: 5})
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if report.Total != 7 || len(report.Rows) != 2 || report.Rows[0].Serial != 6 {
		t.Fatalf("unexpected page report: %+v", report)
	}
	if report.Rows[0].Address != domain.ReportPlaceholder || report.Rows[0].Role != domain.ReportPlaceholder {
		t.Fatalf("expected placeholders, got %+v", report.Rows[0])
	}

	all, err := svc.Report(context.Background(), nil)
	if err != nil {
		t.Fatalf("Report all: %v", err)
	}
	if all.Total != 7 || len(all.Rows) != 7 || all.Rows[0].Serial != 1 || all.Title != "User Profile Manager" {
		t.Fatalf("unexpected full report: %+v", all)
	}
}

func TestProfileService_RejectsPasswordOverByteLimit(t *testing.T) {
	repo := newStubProfileRepo()
	svc := newProfileService(repo, newStubImageStore())
	long := strings.Repeat("é", 72)
	want := "Password must be at most 72 bytes"

	in := validInput()
	in.Password = long
	_, err := svc.CreateProfile(context.Background(), in)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Message != want {
		t.Fatalf("create: expected %q, got %v", want, err)
	}
	if len(repo.profiles) != 0 {
		t.Fatalf("expected nothing stored")
	}

	p, err := svc.CreateProfile(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.UpdateProfile(context.Background(), p.ID, ports.UpdateProfileInput{Name: "Ada", Email: "a@x.com", Password: long})
	if !errors.As(err, &ve) || ve.Message != want {
		t.Fatalf("update: expected %q, got %v", want, err)
	}
}
