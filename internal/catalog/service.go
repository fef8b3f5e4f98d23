package catalog

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"acredge.in/internal/assets"
	"acredge.in/internal/docstore"
	"acredge.in/internal/ids"
	"acredge.in/internal/obs"
)

// Files groups the uploaded multipart files of one request by field name.
// Handlers have already checked extension and size against the field specs.
type Files map[string][]assets.File

// Service coordinates validation, asset upload/cleanup, audit stamping, and
// persistence for every entity kind. Its central contract: a rejected write
// leaves no orphaned asset behind, and an entity is never persisted
// referencing an asset that was not confirmed uploaded first.
type Service struct {
	docs  docstore.Store
	store assets.Gateway
	now   func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService wires the document store and the asset gateway.
func NewService(docs docstore.Store, store assets.Gateway, opts ...Option) *Service {
	s := &Service{docs: docs, store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// workingSet accumulates every URL uploaded during one attempt so a failed
// write can delete all of them before the error response goes out.
type workingSet struct {
	uploaded []string
}

// upload pushes the files of one field, enforcing the field's max count
// against the URLs already in the working set.
func (s *Service) upload(ctx context.Context, spec FieldSpec, entityID string, current int, fs []assets.File, ws *workingSet) ([]string, error) {
	if len(fs) == 0 {
		return nil, nil
	}
	if current+len(fs) > spec.MaxCount {
		return nil, &ValidationError{Errors: []string{
			fmt.Sprintf("Maximum %d %s allowed", spec.MaxCount, spec.Name),
		}}
	}
	urls, err := s.store.UploadAll(ctx, fs, spec.Folder, entityID)
	ws.uploaded = append(ws.uploaded, urls...)
	if err != nil {
		return nil, fmt.Errorf("catalog: upload %s: %w", spec.Name, err)
	}
	return urls, nil
}

// discard best-effort deletes assets stranded by a failed or superseding
// write. Failures are logged; the caller's error handling is not disturbed.
func (s *Service) discard(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	if err := s.store.DeleteAll(ctx, urls); err != nil {
		obs.LogError("asset cleanup failed", err, map[string]any{"urls": urls})
	}
}

func specFor(collection, name string) FieldSpec {
	for _, f := range FieldSpecsFor(collection) {
		if f.Name == name {
			return f
		}
	}
	return FieldSpec{}
}

// removeAll splits list into the entries kept and the members of drop that
// were actually present. Drop URLs the entity never referenced are not
// returned: they must not be deleted on this entity's behalf, another
// record may still point at them.
func removeAll(list, drop []string) (kept, removed []string) {
	if len(drop) == 0 {
		return list, nil
	}
	dropSet := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		dropSet[d] = struct{}{}
	}
	kept = list[:0:0]
	for _, u := range list {
		if _, gone := dropSet[u]; gone {
			removed = append(removed, u)
		} else {
			kept = append(kept, u)
		}
	}
	return kept, removed
}

func (s *Service) fail(ctx context.Context, ws *workingSet, err error) error {
	s.discard(ctx, ws.uploaded)
	return err
}

func (s *Service) reject(ctx context.Context, ws *workingSet, errs []string) error {
	s.discard(ctx, ws.uploaded)
	return &ValidationError{Errors: errs}
}

// --- Developers ---

func (s *Service) CreateDeveloper(ctx context.Context, by string, form url.Values, files Files) (Developer, error) {
	var ws workingSet
	var dev Developer
	errs := dev.applyForm(form)

	logo := specFor(docstore.Developers, "logoUrl")
	urls, err := s.upload(ctx, logo, "", 0, files[logo.Name], &ws)
	if err != nil {
		return Developer{}, s.fail(ctx, &ws, err)
	}
	if len(urls) > 0 {
		dev.LogoURL = urls[0]
	}

	if errs = append(errs, dev.Validate()...); len(errs) > 0 {
		return Developer{}, s.reject(ctx, &ws, errs)
	}

	dev.CreatedBy = by
	dev.CreatedOn = s.now()
	id, err := s.docs.Add(ctx, docstore.Developers, dev)
	if err != nil {
		return Developer{}, s.fail(ctx, &ws, err)
	}
	dev.ID = id
	return dev, nil
}

func (s *Service) GetDeveloper(ctx context.Context, id string) (Developer, error) {
	var dev Developer
	if err := s.docs.Get(ctx, docstore.Developers, id, &dev); err != nil {
		return Developer{}, err
	}
	dev.ID = id
	return dev, nil
}

func (s *Service) ListDevelopers(ctx context.Context) ([]Developer, error) {
	docs, err := s.docs.List(ctx, docstore.Developers)
	if err != nil {
		return nil, err
	}
	out := make([]Developer, 0, len(docs))
	for _, doc := range docs {
		var dev Developer
		if err := doc.DataTo(&dev); err != nil {
			return nil, err
		}
		dev.ID = doc.ID
		out = append(out, dev)
	}
	return out, nil
}

func (s *Service) UpdateDeveloper(ctx context.Context, by, id string, form url.Values, files Files) (Developer, error) {
	var dev Developer
	if err := s.docs.Get(ctx, docstore.Developers, id, &dev); err != nil {
		return Developer{}, err
	}
	oldLogo := dev.LogoURL

	var ws workingSet
	errs := dev.applyForm(form)

	logo := specFor(docstore.Developers, "logoUrl")
	urls, err := s.upload(ctx, logo, "", 0, files[logo.Name], &ws)
	if err != nil {
		return Developer{}, s.fail(ctx, &ws, err)
	}
	if len(urls) > 0 {
		dev.LogoURL = urls[0]
	}

	if errs = append(errs, dev.Validate()...); len(errs) > 0 {
		return Developer{}, s.reject(ctx, &ws, errs)
	}

	now := s.now()
	dev.UpdatedBy = &by
	dev.UpdatedOn = &now
	if err := s.docs.Set(ctx, docstore.Developers, id, dev); err != nil {
		return Developer{}, s.fail(ctx, &ws, err)
	}
	dev.ID = id

	// The replaced logo is removed only after the new state is persisted.
	if len(urls) > 0 && oldLogo != "" && oldLogo != dev.LogoURL {
		s.discard(ctx, []string{oldLogo})
	}
	return dev, nil
}

func (s *Service) DeleteDeveloper(ctx context.Context, id string) error {
	var dev Developer
	if err := s.docs.Get(ctx, docstore.Developers, id, &dev); err != nil {
		return err
	}
	if dev.LogoURL != "" {
		if err := s.store.DeleteAll(ctx, []string{dev.LogoURL}); err != nil {
			return fmt.Errorf("catalog: delete developer assets: %w", err)
		}
	}
	return s.docs.Delete(ctx, docstore.Developers, id)
}

// --- Projects ---

func (s *Service) CreateProject(ctx context.Context, by string, form url.Values, files Files) (Project, error) {
	var ws workingSet
	var p Project
	errs := p.applyForm(form)

	// Media-heavy kinds mint their id up front so asset paths are
	// namespaced per entity; nothing is persisted before validation.
	id := ids.New()

	images := specFor(docstore.Projects, "images")
	urls, err := s.upload(ctx, images, id, len(p.Images), files[images.Name], &ws)
	if err != nil {
		return Project{}, s.fail(ctx, &ws, err)
	}
	p.Images = append(p.Images, urls...)

	videos := specFor(docstore.Projects, "videos")
	urls, err = s.upload(ctx, videos, id, len(p.Videos), files[videos.Name], &ws)
	if err != nil {
		return Project{}, s.fail(ctx, &ws, err)
	}
	p.Videos = append(p.Videos, urls...)

	brochure := specFor(docstore.Projects, "brochureUrl")
	urls, err = s.upload(ctx, brochure, id, 0, files[brochure.Name], &ws)
	if err != nil {
		return Project{}, s.fail(ctx, &ws, err)
	}
	if len(urls) > 0 {
		p.BrochureURL = urls[0]
	}

	if errs = append(errs, p.Validate()...); len(errs) > 0 {
		return Project{}, s.reject(ctx, &ws, errs)
	}

	p.CreatedBy = by
	p.CreatedOn = s.now()
	if err := s.docs.Set(ctx, docstore.Projects, id, p); err != nil {
		return Project{}, s.fail(ctx, &ws, err)
	}
	p.ID = id
	return p, nil
}

func (s *Service) GetProject(ctx context.Context, id string) (Project, error) {
	var p Project
	if err := s.docs.Get(ctx, docstore.Projects, id, &p); err != nil {
		return Project{}, err
	}
	p.ID = id
	return p, nil
}

func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	docs, err := s.docs.List(ctx, docstore.Projects)
	if err != nil {
		return nil, err
	}
	out := make([]Project, 0, len(docs))
	for _, doc := range docs {
		var p Project
		if err := doc.DataTo(&p); err != nil {
			return nil, err
		}
		p.ID = doc.ID
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) UpdateProject(ctx context.Context, by, id string, form url.Values, files Files) (Project, error) {
	var p Project
	if err := s.docs.Get(ctx, docstore.Projects, id, &p); err != nil {
		return Project{}, err
	}
	oldBrochure := p.BrochureURL

	// Explicitly deleted URLs leave the working set now but stay in the
	// store until the new state is persisted.
	var superseded []string
	images := specFor(docstore.Projects, "images")
	videos := specFor(docstore.Projects, "videos")
	if drop := form[images.DeleteKey]; len(drop) > 0 {
		var removed []string
		p.Images, removed = removeAll(p.Images, drop)
		superseded = append(superseded, removed...)
	}
	if drop := form[videos.DeleteKey]; len(drop) > 0 {
		var removed []string
		p.Videos, removed = removeAll(p.Videos, drop)
		superseded = append(superseded, removed...)
	}

	var ws workingSet
	errs := p.applyForm(form)

	urls, err := s.upload(ctx, images, id, len(p.Images), files[images.Name], &ws)
	if err != nil {
		return Project{}, s.fail(ctx, &ws, err)
	}
	p.Images = append(p.Images, urls...)

	urls, err = s.upload(ctx, videos, id, len(p.Videos), files[videos.Name], &ws)
	if err != nil {
		return Project{}, s.fail(ctx, &ws, err)
	}
	p.Videos = append(p.Videos, urls...)

	brochure := specFor(docstore.Projects, "brochureUrl")
	urls, err = s.upload(ctx, brochure, id, 0, files[brochure.Name], &ws)
	if err != nil {
		return Project{}, s.fail(ctx, &ws, err)
	}
	if len(urls) > 0 {
		p.BrochureURL = urls[0]
		if oldBrochure != "" {
			superseded = append(superseded, oldBrochure)
		}
	}

	if errs = append(errs, p.Validate()...); len(errs) > 0 {
		return Project{}, s.reject(ctx, &ws, errs)
	}

	now := s.now()
	p.UpdatedBy = &by
	p.UpdatedOn = &now
	if err := s.docs.Set(ctx, docstore.Projects, id, p); err != nil {
		return Project{}, s.fail(ctx, &ws, err)
	}
	p.ID = id

	s.discard(ctx, superseded)
	return p, nil
}

func (s *Service) DeleteProject(ctx context.Context, id string) error {
	var p Project
	if err := s.docs.Get(ctx, docstore.Projects, id, &p); err != nil {
		return err
	}
	urls := append(append([]string{}, p.Images...), p.Videos...)
	if p.BrochureURL != "" {
		urls = append(urls, p.BrochureURL)
	}
	if err := s.store.DeleteAll(ctx, urls); err != nil {
		// Keep the record; asset deletion is idempotent, the client retries.
		return fmt.Errorf("catalog: delete project assets: %w", err)
	}
	return s.docs.Delete(ctx, docstore.Projects, id)
}

// --- Towers ---

func (s *Service) CreateTower(ctx context.Context, by string, form url.Values) (Tower, error) {
	var t Tower
	errs := t.applyForm(form)
	if errs = append(errs, t.Validate()...); len(errs) > 0 {
		return Tower{}, &ValidationError{Errors: errs}
	}

	t.CreatedBy = by
	t.CreatedOn = s.now()
	id, err := s.docs.Add(ctx, docstore.Towers, t)
	if err != nil {
		return Tower{}, err
	}
	t.ID = id
	return t, nil
}

func (s *Service) GetTower(ctx context.Context, id string) (Tower, error) {
	var t Tower
	if err := s.docs.Get(ctx, docstore.Towers, id, &t); err != nil {
		return Tower{}, err
	}
	t.ID = id
	return t, nil
}

func (s *Service) ListTowers(ctx context.Context) ([]Tower, error) {
	docs, err := s.docs.List(ctx, docstore.Towers)
	if err != nil {
		return nil, err
	}
	out := make([]Tower, 0, len(docs))
	for _, doc := range docs {
		var t Tower
		if err := doc.DataTo(&t); err != nil {
			return nil, err
		}
		t.ID = doc.ID
		out = append(out, t)
	}
	return out, nil
}

func (s *Service) UpdateTower(ctx context.Context, by, id string, form url.Values) (Tower, error) {
	var t Tower
	if err := s.docs.Get(ctx, docstore.Towers, id, &t); err != nil {
		return Tower{}, err
	}

	errs := t.applyForm(form)
	if errs = append(errs, t.Validate()...); len(errs) > 0 {
		return Tower{}, &ValidationError{Errors: errs}
	}

	now := s.now()
	t.UpdatedBy = &by
	t.UpdatedOn = &now
	if err := s.docs.Set(ctx, docstore.Towers, id, t); err != nil {
		return Tower{}, err
	}
	t.ID = id
	return t, nil
}

func (s *Service) DeleteTower(ctx context.Context, id string) error {
	var t Tower
	if err := s.docs.Get(ctx, docstore.Towers, id, &t); err != nil {
		return err
	}
	return s.docs.Delete(ctx, docstore.Towers, id)
}

// --- Series ---

func (s *Service) CreateSeries(ctx context.Context, by string, form url.Values, files Files) (Series, error) {
	var ws workingSet
	var sr Series
	errs := sr.applyForm(form)

	id := ids.New()

	layout := specFor(docstore.Series, "layoutPlanUrl")
	urls, err := s.upload(ctx, layout, id, 0, files[layout.Name], &ws)
	if err != nil {
		return Series{}, s.fail(ctx, &ws, err)
	}
	if len(urls) > 0 {
		sr.LayoutPlanURL = urls[0]
	}

	insideImages := specFor(docstore.Series, "insideImagesUrls")
	urls, err = s.upload(ctx, insideImages, id, len(sr.InsideImagesURLs), files[insideImages.Name], &ws)
	if err != nil {
		return Series{}, s.fail(ctx, &ws, err)
	}
	sr.InsideImagesURLs = append(sr.InsideImagesURLs, urls...)

	insideVideos := specFor(docstore.Series, "insideVideosUrls")
	urls, err = s.upload(ctx, insideVideos, id, len(sr.InsideVideosURLs), files[insideVideos.Name], &ws)
	if err != nil {
		return Series{}, s.fail(ctx, &ws, err)
	}
	sr.InsideVideosURLs = append(sr.InsideVideosURLs, urls...)

	if errs = append(errs, sr.Validate()...); len(errs) > 0 {
		return Series{}, s.reject(ctx, &ws, errs)
	}

	sr.CreatedBy = by
	sr.CreatedOn = s.now()
	if err := s.docs.Set(ctx, docstore.Series, id, sr); err != nil {
		return Series{}, s.fail(ctx, &ws, err)
	}
	sr.ID = id
	return sr, nil
}

func (s *Service) GetSeries(ctx context.Context, id string) (Series, error) {
	var sr Series
	if err := s.docs.Get(ctx, docstore.Series, id, &sr); err != nil {
		return Series{}, err
	}
	sr.ID = id
	return sr, nil
}

func (s *Service) ListSeries(ctx context.Context) ([]Series, error) {
	docs, err := s.docs.List(ctx, docstore.Series)
	if err != nil {
		return nil, err
	}
	out := make([]Series, 0, len(docs))
	for _, doc := range docs {
		var sr Series
		if err := doc.DataTo(&sr); err != nil {
			return nil, err
		}
		sr.ID = doc.ID
		out = append(out, sr)
	}
	return out, nil
}

func (s *Service) UpdateSeries(ctx context.Context, by, id string, form url.Values, files Files) (Series, error) {
	var sr Series
	if err := s.docs.Get(ctx, docstore.Series, id, &sr); err != nil {
		return Series{}, err
	}
	oldLayout := sr.LayoutPlanURL

	var superseded []string
	insideImages := specFor(docstore.Series, "insideImagesUrls")
	insideVideos := specFor(docstore.Series, "insideVideosUrls")
	if drop := form[insideImages.DeleteKey]; len(drop) > 0 {
		var removed []string
		sr.InsideImagesURLs, removed = removeAll(sr.InsideImagesURLs, drop)
		superseded = append(superseded, removed...)
	}
	if drop := form[insideVideos.DeleteKey]; len(drop) > 0 {
		var removed []string
		sr.InsideVideosURLs, removed = removeAll(sr.InsideVideosURLs, drop)
		superseded = append(superseded, removed...)
	}

	var ws workingSet
	errs := sr.applyForm(form)

	layout := specFor(docstore.Series, "layoutPlanUrl")
	urls, err := s.upload(ctx, layout, id, 0, files[layout.Name], &ws)
	if err != nil {
		return Series{}, s.fail(ctx, &ws, err)
	}
	if len(urls) > 0 {
		sr.LayoutPlanURL = urls[0]
		if oldLayout != "" {
			superseded = append(superseded, oldLayout)
		}
	}

	urls, err = s.upload(ctx, insideImages, id, len(sr.InsideImagesURLs), files[insideImages.Name], &ws)
	if err != nil {
		return Series{}, s.fail(ctx, &ws, err)
	}
	sr.InsideImagesURLs = append(sr.InsideImagesURLs, urls...)

	urls, err = s.upload(ctx, insideVideos, id, len(sr.InsideVideosURLs), files[insideVideos.Name], &ws)
	if err != nil {
		return Series{}, s.fail(ctx, &ws, err)
	}
	sr.InsideVideosURLs = append(sr.InsideVideosURLs, urls...)

	if errs = append(errs, sr.Validate()...); len(errs) > 0 {
		return Series{}, s.reject(ctx, &ws, errs)
	}

	now := s.now()
	sr.UpdatedBy = &by
	sr.UpdatedOn = &now
	if err := s.docs.Set(ctx, docstore.Series, id, sr); err != nil {
		return Series{}, s.fail(ctx, &ws, err)
	}
	sr.ID = id

	s.discard(ctx, superseded)
	return sr, nil
}

func (s *Service) DeleteSeries(ctx context.Context, id string) error {
	var sr Series
	if err := s.docs.Get(ctx, docstore.Series, id, &sr); err != nil {
		return err
	}
	urls := append(append([]string{}, sr.InsideImagesURLs...), sr.InsideVideosURLs...)
	if sr.LayoutPlanURL != "" {
		urls = append(urls, sr.LayoutPlanURL)
	}
	if err := s.store.DeleteAll(ctx, urls); err != nil {
		return fmt.Errorf("catalog: delete series assets: %w", err)
	}
	return s.docs.Delete(ctx, docstore.Series, id)
}

// --- Amenities ---

func (s *Service) CreateAmenity(ctx context.Context, by string, form url.Values, files Files) (Amenity, error) {
	var ws workingSet
	var a Amenity
	errs := a.applyForm(form)

	if a.NormalizedName != "" {
		dup, err := s.amenityExists(ctx, a.NormalizedName, "")
		if err != nil {
			return Amenity{}, err
		}
		if dup {
			errs = append(errs, "Amenity with this name already exists")
		}
	}

	logo := specFor(docstore.Amenities, "logoUrl")
	urls, err := s.upload(ctx, logo, "", 0, files[logo.Name], &ws)
	if err != nil {
		return Amenity{}, s.fail(ctx, &ws, err)
	}
	if len(urls) > 0 {
		a.LogoURL = urls[0]
	}

	if errs = append(errs, a.Validate()...); len(errs) > 0 {
		return Amenity{}, s.reject(ctx, &ws, errs)
	}

	a.CreatedBy = by
	a.CreatedOn = s.now()
	id, err := s.docs.Add(ctx, docstore.Amenities, a)
	if err != nil {
		return Amenity{}, s.fail(ctx, &ws, err)
	}
	a.ID = id
	return a, nil
}

func (s *Service) GetAmenity(ctx context.Context, id string) (Amenity, error) {
	var a Amenity
	if err := s.docs.Get(ctx, docstore.Amenities, id, &a); err != nil {
		return Amenity{}, err
	}
	a.ID = id
	return a, nil
}

func (s *Service) ListAmenities(ctx context.Context) ([]Amenity, error) {
	docs, err := s.docs.List(ctx, docstore.Amenities)
	if err != nil {
		return nil, err
	}
	out := make([]Amenity, 0, len(docs))
	for _, doc := range docs {
		var a Amenity
		if err := doc.DataTo(&a); err != nil {
			return nil, err
		}
		a.ID = doc.ID
		out = append(out, a)
	}
	return out, nil
}

func (s *Service) UpdateAmenity(ctx context.Context, by, id string, form url.Values, files Files) (Amenity, error) {
	var a Amenity
	if err := s.docs.Get(ctx, docstore.Amenities, id, &a); err != nil {
		return Amenity{}, err
	}
	oldLogo := a.LogoURL

	var ws workingSet
	errs := a.applyForm(form)

	if a.NormalizedName != "" {
		dup, err := s.amenityExists(ctx, a.NormalizedName, id)
		if err != nil {
			return Amenity{}, err
		}
		if dup {
			errs = append(errs, "Amenity with this name already exists")
		}
	}

	logo := specFor(docstore.Amenities, "logoUrl")
	urls, err := s.upload(ctx, logo, "", 0, files[logo.Name], &ws)
	if err != nil {
		return Amenity{}, s.fail(ctx, &ws, err)
	}
	if len(urls) > 0 {
		a.LogoURL = urls[0]
	}

	if errs = append(errs, a.Validate()...); len(errs) > 0 {
		return Amenity{}, s.reject(ctx, &ws, errs)
	}

	now := s.now()
	a.UpdatedBy = &by
	a.UpdatedOn = &now
	if err := s.docs.Set(ctx, docstore.Amenities, id, a); err != nil {
		return Amenity{}, s.fail(ctx, &ws, err)
	}
	a.ID = id

	if len(urls) > 0 && oldLogo != "" && oldLogo != a.LogoURL {
		s.discard(ctx, []string{oldLogo})
	}
	return a, nil
}

func (s *Service) DeleteAmenity(ctx context.Context, id string) error {
	var a Amenity
	if err := s.docs.Get(ctx, docstore.Amenities, id, &a); err != nil {
		return err
	}
	if a.LogoURL != "" {
		if err := s.store.DeleteAll(ctx, []string{a.LogoURL}); err != nil {
			return fmt.Errorf("catalog: delete amenity assets: %w", err)
		}
	}
	return s.docs.Delete(ctx, docstore.Amenities, id)
}

// amenityExists scans for another amenity with the same normalized name.
// The collection is small; no index is maintained.
func (s *Service) amenityExists(ctx context.Context, normalizedName, excludeID string) (bool, error) {
	docs, err := s.docs.List(ctx, docstore.Amenities)
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if doc.ID == excludeID {
			continue
		}
		var a Amenity
		if err := doc.DataTo(&a); err != nil {
			return false, err
		}
		if a.NormalizedName == normalizedName {
			return true, nil
		}
	}
	return false, nil
}
