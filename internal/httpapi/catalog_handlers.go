package httpapi

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"acredge.in/internal/assets"
	"acredge.in/internal/catalog"
	"acredge.in/internal/docstore"
)

// multipartMemory caps the in-memory portion of a parsed form; larger
// files spill to temp storage.
const multipartMemory = 32 << 20

// kindRoute binds one entity kind's URL segment to its service methods.
// The closures keep handleCollection/handleResource generic over kinds.
type kindRoute struct {
	path       string
	collection string

	list   func(s *catalog.Service, ctx context.Context) (any, error)
	get    func(s *catalog.Service, ctx context.Context, id string) (any, error)
	create func(s *catalog.Service, ctx context.Context, by string, form url.Values, files catalog.Files) (any, error)
	update func(s *catalog.Service, ctx context.Context, by, id string, form url.Values, files catalog.Files) (any, error)
	remove func(s *catalog.Service, ctx context.Context, id string) error
}

var kindRoutes = []kindRoute{
	{
		path:       "developers",
		collection: docstore.Developers,
		list: func(s *catalog.Service, ctx context.Context) (any, error) {
			return s.ListDevelopers(ctx)
		},
		get: func(s *catalog.Service, ctx context.Context, id string) (any, error) {
			return s.GetDeveloper(ctx, id)
		},
		create: func(s *catalog.Service, ctx context.Context, by string, form url.Values, files catalog.Files) (any, error) {
			return s.CreateDeveloper(ctx, by, form, files)
		},
		update: func(s *catalog.Service, ctx context.Context, by, id string, form url.Values, files catalog.Files) (any, error) {
			return s.UpdateDeveloper(ctx, by, id, form, files)
		},
		remove: func(s *catalog.Service, ctx context.Context, id string) error {
			return s.DeleteDeveloper(ctx, id)
		},
	},
	{
		path:       "projects",
		collection: docstore.Projects,
		list: func(s *catalog.Service, ctx context.Context) (any, error) {
			return s.ListProjects(ctx)
		},
		get: func(s *catalog.Service, ctx context.Context, id string) (any, error) {
			return s.GetProject(ctx, id)
		},
		create: func(s *catalog.Service, ctx context.Context, by string, form url.Values, files catalog.Files) (any, error) {
			return s.CreateProject(ctx, by, form, files)
		},
		update: func(s *catalog.Service, ctx context.Context, by, id string, form url.Values, files catalog.Files) (any, error) {
			return s.UpdateProject(ctx, by, id, form, files)
		},
		remove: func(s *catalog.Service, ctx context.Context, id string) error {
			return s.DeleteProject(ctx, id)
		},
	},
	{
		path:       "towers",
		collection: docstore.Towers,
		list: func(s *catalog.Service, ctx context.Context) (any, error) {
			return s.ListTowers(ctx)
		},
		get: func(s *catalog.Service, ctx context.Context, id string) (any, error) {
			return s.GetTower(ctx, id)
		},
		create: func(s *catalog.Service, ctx context.Context, by string, form url.Values, _ catalog.Files) (any, error) {
			return s.CreateTower(ctx, by, form)
		},
		update: func(s *catalog.Service, ctx context.Context, by, id string, form url.Values, _ catalog.Files) (any, error) {
			return s.UpdateTower(ctx, by, id, form)
		},
		remove: func(s *catalog.Service, ctx context.Context, id string) error {
			return s.DeleteTower(ctx, id)
		},
	},
	{
		path:       "series",
		collection: docstore.Series,
		list: func(s *catalog.Service, ctx context.Context) (any, error) {
			return s.ListSeries(ctx)
		},
		get: func(s *catalog.Service, ctx context.Context, id string) (any, error) {
			return s.GetSeries(ctx, id)
		},
		create: func(s *catalog.Service, ctx context.Context, by string, form url.Values, files catalog.Files) (any, error) {
			return s.CreateSeries(ctx, by, form, files)
		},
		update: func(s *catalog.Service, ctx context.Context, by, id string, form url.Values, files catalog.Files) (any, error) {
			return s.UpdateSeries(ctx, by, id, form, files)
		},
		remove: func(s *catalog.Service, ctx context.Context, id string) error {
			return s.DeleteSeries(ctx, id)
		},
	},
	{
		path:       "amenities",
		collection: docstore.Amenities,
		list: func(s *catalog.Service, ctx context.Context) (any, error) {
			return s.ListAmenities(ctx)
		},
		get: func(s *catalog.Service, ctx context.Context, id string) (any, error) {
			return s.GetAmenity(ctx, id)
		},
		create: func(s *catalog.Service, ctx context.Context, by string, form url.Values, files catalog.Files) (any, error) {
			return s.CreateAmenity(ctx, by, form, files)
		},
		update: func(s *catalog.Service, ctx context.Context, by, id string, form url.Values, files catalog.Files) (any, error) {
			return s.UpdateAmenity(ctx, by, id, form, files)
		},
		remove: func(s *catalog.Service, ctx context.Context, id string) error {
			return s.DeleteAmenity(ctx, id)
		},
	},
}

func (a *API) handleCollection(w http.ResponseWriter, r *http.Request, route kindRoute) {
	switch r.Method {
	case http.MethodGet:
		items, err := route.list(a.catalog, r.Context())
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	case http.MethodPost:
		p, ok := requireAdmin(w, r)
		if !ok {
			return
		}
		form, files, ok := a.parseEntityForm(w, r, route.collection)
		if !ok {
			return
		}
		created, err := route.create(a.catalog, r.Context(), p.Identity(), form, files)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleResource(w http.ResponseWriter, r *http.Request, route kindRoute) {
	id := strings.TrimPrefix(r.URL.Path, "/api/"+route.path+"/")
	if id == "" || strings.Contains(id, "/") {
		writeMessage(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, err := route.get(a.catalog, r.Context(), id)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPut:
		p, ok := requireAdmin(w, r)
		if !ok {
			return
		}
		form, files, ok := a.parseEntityForm(w, r, route.collection)
		if !ok {
			return
		}
		updated, err := route.update(a.catalog, r.Context(), p.Identity(), id, form, files)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if _, ok := requireAdmin(w, r); !ok {
			return
		}
		if err := route.remove(a.catalog, r.Context(), id); err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "deleted"})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// parseEntityForm reads the request form, pulling uploaded files out of a
// multipart body and checking each against the kind's field specs. On a
// violation it writes the 400 itself and returns ok=false.
func (a *API) parseEntityForm(w http.ResponseWriter, r *http.Request, collection string) (url.Values, catalog.Files, bool) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			writeError(w, r, http.StatusBadRequest, "malformed form body")
			return nil, nil, false
		}
		return r.PostForm, nil, true
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed multipart body")
		return nil, nil, false
	}
	form := url.Values(r.MultipartForm.Value)

	files := catalog.Files{}
	for _, spec := range catalog.FieldSpecsFor(collection) {
		headers := r.MultipartForm.File[spec.Name]
		if len(headers) == 0 {
			continue
		}
		for _, fh := range headers {
			file, msg := readUpload(fh)
			if msg == "" {
				msg = spec.CheckFile(file)
			}
			if msg != "" {
				writeError(w, r, http.StatusBadRequest, msg)
				return nil, nil, false
			}
			files[spec.Name] = append(files[spec.Name], file)
		}
	}
	return form, files, true
}

func readUpload(fh *multipart.FileHeader) (assets.File, string) {
	f, err := fh.Open()
	if err != nil {
		return assets.File{}, "could not read uploaded file"
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return assets.File{}, "could not read uploaded file"
	}
	return assets.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, ""
}
