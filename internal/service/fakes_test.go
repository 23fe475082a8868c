package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"inkwell/api/internal/models"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/security"
)

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func claimsFor(creator models.Creator) *security.Claims {
	claims := &security.Claims{
		Admin: creator.IsPublisher(),
		Data:  creator,
	}
	claims.Subject = creator.Username
	return claims
}

// fakeCreatorStore keeps creators in a map, mimicking the row-count
// semantics of the pgx repository.
type fakeCreatorStore struct {
	creators map[string]models.Creator
}

func newFakeCreatorStore(seed ...models.Creator) *fakeCreatorStore {
	s := &fakeCreatorStore{creators: make(map[string]models.Creator)}
	for _, c := range seed {
		s.creators[c.Username] = c
	}
	return s
}

func (s *fakeCreatorStore) Create(_ context.Context, creator models.Creator) error {
	if _, ok := s.creators[creator.Username]; ok {
		return repository.ErrCreatorExists
	}
	creator.JoinedAt = time.Now()
	s.creators[creator.Username] = creator
	return nil
}

func (s *fakeCreatorStore) GetByUsername(_ context.Context, username string) (models.Creator, error) {
	creator, ok := s.creators[username]
	if !ok {
		return models.Creator{}, repository.ErrCreatorNotFound
	}
	return creator, nil
}

func (s *fakeCreatorStore) GetAll(_ context.Context) ([]models.Creator, error) {
	out := make([]models.Creator, 0, len(s.creators))
	for _, c := range s.creators {
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeCreatorStore) UpdateProfile(_ context.Context, username, displayName, biography string) error {
	creator, ok := s.creators[username]
	if !ok {
		return repository.ErrCreatorNotFound
	}
	creator.DisplayName = displayName
	creator.Biography = biography
	s.creators[username] = creator
	return nil
}

func (s *fakeCreatorStore) UpdatePassword(_ context.Context, username, password string) error {
	creator, ok := s.creators[username]
	if !ok {
		return repository.ErrCreatorNotFound
	}
	creator.Password = password
	s.creators[username] = creator
	return nil
}

func (s *fakeCreatorStore) UpdateRole(_ context.Context, username string, role models.CreatorRole) error {
	creator, ok := s.creators[username]
	if !ok {
		return repository.ErrCreatorNotFound
	}
	creator.Role = role
	s.creators[username] = creator
	return nil
}

// fakeTextStore assigns ids sequentially like the serial column does.
type fakeTextStore struct {
	texts  map[int64]models.Text
	nextID int64
}

func newFakeTextStore(seed ...models.Text) *fakeTextStore {
	s := &fakeTextStore{texts: make(map[int64]models.Text), nextID: 1}
	for _, t := range seed {
		s.texts[t.ID] = t
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	return s
}

func (s *fakeTextStore) Insert(_ context.Context, text models.Text) (models.Text, error) {
	text.ID = s.nextID
	s.nextID++
	text.CreatedAt = time.Now()
	text.UpdatedAt = text.CreatedAt
	s.texts[text.ID] = text
	return text, nil
}

func (s *fakeTextStore) Update(_ context.Context, text models.Text) (models.Text, error) {
	if _, ok := s.texts[text.ID]; !ok {
		return models.Text{}, repository.ErrTextNotFound
	}
	text.UpdatedAt = time.Now()
	s.texts[text.ID] = text
	return text, nil
}

func (s *fakeTextStore) GetByID(_ context.Context, id int64) (models.Text, error) {
	text, ok := s.texts[id]
	if !ok {
		return models.Text{}, repository.ErrTextNotFound
	}
	return text, nil
}

func (s *fakeTextStore) ListPublished(_ context.Context, limit int) ([]models.Text, error) {
	var out []models.Text
	for _, t := range s.texts {
		if t.IsPublished {
			out = append(out, t)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeTextStore) ListByAuthor(_ context.Context, author string) ([]models.Text, error) {
	var out []models.Text
	for _, t := range s.texts {
		if t.Author == author {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeTextStore) SetPublished(_ context.Context, id int64, published bool) error {
	text, ok := s.texts[id]
	if !ok {
		return repository.ErrTextNotFound
	}
	text.IsPublished = published
	s.texts[id] = text
	return nil
}

func (s *fakeTextStore) SetMarkedAsDone(_ context.Context, id int64, done bool) error {
	text, ok := s.texts[id]
	if !ok {
		return repository.ErrTextNotFound
	}
	text.MarkedAsDone = done
	s.texts[id] = text
	return nil
}

type fakeImageStore struct {
	images map[string]models.Image
}

func newFakeImageStore(seed ...models.Image) *fakeImageStore {
	s := &fakeImageStore{images: make(map[string]models.Image)}
	for _, img := range seed {
		s.images[img.ID] = img
	}
	return s
}

func (s *fakeImageStore) Create(_ context.Context, image models.Image) error {
	image.CreatedAt = time.Now()
	s.images[image.ID] = image
	return nil
}

func (s *fakeImageStore) GetByID(_ context.Context, id string) (models.Image, error) {
	image, ok := s.images[id]
	if !ok {
		return models.Image{}, repository.ErrImageNotFound
	}
	return image, nil
}

func (s *fakeImageStore) ListByTag(_ context.Context, tag string) ([]models.Image, error) {
	var out []models.Image
	for _, img := range s.images {
		for _, t := range img.Tags {
			if t == tag {
				out = append(out, img)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeImageStore) Delete(_ context.Context, id string) error {
	if _, ok := s.images[id]; !ok {
		return repository.ErrImageNotFound
	}
	delete(s.images, id)
	return nil
}

type fakePageStore struct {
	pages map[string]models.Page
}

func newFakePageStore(seed ...models.Page) *fakePageStore {
	s := &fakePageStore{pages: make(map[string]models.Page)}
	for _, p := range seed {
		s.pages[p.Path] = p
	}
	return s
}

func (s *fakePageStore) Insert(_ context.Context, page models.Page) (models.Page, error) {
	s.pages[page.Path] = page
	return page, nil
}

func (s *fakePageStore) Update(_ context.Context, oldPath string, page models.Page) (models.Page, error) {
	if _, ok := s.pages[oldPath]; !ok {
		return models.Page{}, repository.ErrPageNotFound
	}
	delete(s.pages, oldPath)
	s.pages[page.Path] = page
	return page, nil
}

func (s *fakePageStore) GetByPath(_ context.Context, path string) (models.Page, error) {
	page, ok := s.pages[path]
	if !ok {
		return models.Page{}, repository.ErrPageNotFound
	}
	return page, nil
}

func (s *fakePageStore) GetAll(_ context.Context) ([]models.Page, error) {
	out := make([]models.Page, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakePageStore) Delete(_ context.Context, path string) error {
	if _, ok := s.pages[path]; !ok {
		return repository.ErrPageNotFound
	}
	delete(s.pages, path)
	return nil
}

// fakeRenditionStore can be told to fail on a given size class, to drive
// the upload rollback path.
type fakeRenditionStore struct {
	objects  map[string][]byte
	failSize string
	failErr  error
}

func newFakeRenditionStore() *fakeRenditionStore {
	return &fakeRenditionStore{objects: make(map[string][]byte)}
}

func (s *fakeRenditionStore) PutRendition(_ context.Context, size, imageID string, data []byte) error {
	if size == s.failSize && s.failErr != nil {
		return s.failErr
	}
	s.objects[size+"/"+imageID] = data
	return nil
}

func (s *fakeRenditionStore) DeleteRenditions(_ context.Context, imageID string) error {
	for key := range s.objects {
		if strings.HasSuffix(key, "/"+imageID) {
			delete(s.objects, key)
		}
	}
	return nil
}

type fakeVariantQueue struct {
	enqueued []string
	err      error
}

func (q *fakeVariantQueue) EnqueueEncode(_ context.Context, imageID string) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, imageID)
	return nil
}

// fakeEncoder returns fixed renditions without touching pixel data.
type fakeEncoder struct {
	err error
}

func (e fakeEncoder) Encode(_ context.Context, data []byte) (map[string][]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return map[string][]byte{"s": data, "m": data, "l": data}, nil
}
