package contentapi

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
)

type identified interface {
	RecordID() ID
}

// Resource is the list/get/create/update/delete surface shared by every
// entity endpoint.
type Resource[T any] struct {
	client *Client
	path   string
}

func NewResource[T any](client *Client, path string) Resource[T] {
	return Resource[T]{client: client, path: path}
}

func (r Resource[T]) itemPath(id ID) string {
	return r.path + "/" + url.PathEscape(id.String())
}

func (r Resource[T]) List(ctx context.Context) ([]T, error) {
	items := []T{}
	if err := r.client.getList(ctx, r.path, &items); err != nil {
		return []T{}, err
	}
	return items, nil
}

func (r Resource[T]) Get(ctx context.Context, id ID) (T, error) {
	var out T
	if err := r.client.getOne(ctx, http.MethodGet, r.itemPath(id), nil, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Create posts rec and returns the stored record. When the API answers
// with a bare acknowledgement the submitted record is returned instead.
func (r Resource[T]) Create(ctx context.Context, rec T) (T, error) {
	return r.write(ctx, http.MethodPost, r.path, rec)
}

func (r Resource[T]) Update(ctx context.Context, id ID, rec T) (T, error) {
	if id == "" {
		return rec, fmt.Errorf("update %s: missing id", r.path)
	}
	return r.write(ctx, http.MethodPut, r.itemPath(id), rec)
}

func (r Resource[T]) Delete(ctx context.Context, id ID) error {
	if id == "" {
		return fmt.Errorf("delete %s: missing id", r.path)
	}
	_, err := r.client.doRequest(ctx, http.MethodDelete, r.itemPath(id), nil)
	return err
}

func (r Resource[T]) write(ctx context.Context, method, path string, rec T) (T, error) {
	var out T
	if err := r.client.getOne(ctx, method, path, rec, &out); err != nil {
		return rec, err
	}
	if got, ok := any(out).(identified); ok && got.RecordID() == "" {
		return rec, nil
	}
	return out, nil
}

type CarouselResource struct {
	Resource[CarouselItem]
}

// SaveOrder pushes the display order of a set of carousel items in one call.
func (r CarouselResource) SaveOrder(ctx context.Context, entries []OrderEntry) error {
	body := struct {
		Items []OrderEntry `json:"items"`
	}{Items: entries}
	_, err := r.client.doRequest(ctx, http.MethodPut, r.path+"/display-order", body)
	return err
}

type ProductResource struct {
	Resource[Product]
}

func (r ProductResource) SetFeatured(ctx context.Context, id ID, featured bool) error {
	body := struct {
		Featured int `json:"featured"`
	}{}
	if featured {
		body.Featured = 1
	}
	_, err := r.client.doRequest(ctx, http.MethodPatch, r.itemPath(id)+"/featured", body)
	return err
}

type BranchResource struct {
	Resource[Branch]
}

func (r BranchResource) Directory(ctx context.Context) (BranchDirectory, error) {
	var dir BranchDirectory
	if err := r.client.getOne(ctx, http.MethodGet, r.path, nil, &dir); err != nil {
		return BranchDirectory{}, err
	}
	if dir.Regions == nil {
		dir.Regions = map[string][]Branch{}
	}
	return dir, nil
}

// List flattens the directory, ordered by region then location.
func (r BranchResource) List(ctx context.Context) ([]Branch, error) {
	dir, err := r.Directory(ctx)
	if err != nil {
		return []Branch{}, err
	}
	branches := []Branch{}
	for region, list := range dir.Regions {
		for _, b := range list {
			b.RegionName = region
			branches = append(branches, b)
		}
	}
	slices.SortFunc(branches, func(a, b Branch) int {
		if c := cmp.Compare(a.RegionName, b.RegionName); c != 0 {
			return c
		}
		return cmp.Compare(a.Location, b.Location)
	})
	return branches, nil
}

func (r BranchResource) Create(ctx context.Context, b Branch) (Branch, error) {
	if err := r.client.getOne(ctx, http.MethodPost, r.path, b.input(), nil); err != nil {
		return b, err
	}
	return b, nil
}

func (r BranchResource) Update(ctx context.Context, id ID, b Branch) (Branch, error) {
	if id == "" {
		return b, fmt.Errorf("update %s: missing id", r.path)
	}
	if err := r.client.getOne(ctx, http.MethodPut, r.itemPath(id), b.input(), nil); err != nil {
		return b, err
	}
	b.ID = id
	return b, nil
}

type GalleryResource struct {
	Resource[Story]
	images Resource[GalleryImage]
}

func (r GalleryResource) Images(ctx context.Context, galleryID ID) ([]GalleryImage, error) {
	images := []GalleryImage{}
	if err := r.client.getList(ctx, r.itemPath(galleryID)+"/images", &images); err != nil {
		return []GalleryImage{}, err
	}
	return images, nil
}

func (r GalleryResource) AddImage(ctx context.Context, img GalleryImage) (GalleryImage, error) {
	return r.images.Create(ctx, img)
}

func (r GalleryResource) DeleteImage(ctx context.Context, id ID) error {
	return r.images.Delete(ctx, id)
}

func (c *Client) Carousel() CarouselResource {
	return CarouselResource{NewResource[CarouselItem](c, "/carousel")}
}

func (c *Client) Products() ProductResource {
	return ProductResource{NewResource[Product](c, "/products")}
}

func (c *Client) Categories() Resource[Category] {
	return NewResource[Category](c, "/categories")
}

func (c *Client) Subcategories() Resource[Subcategory] {
	return NewResource[Subcategory](c, "/subcategories")
}

func (c *Client) Teams() Resource[TeamMember] {
	return NewResource[TeamMember](c, "/teams")
}

func (c *Client) Awards() Resource[Award] {
	return NewResource[Award](c, "/awards")
}

func (c *Client) Notices() Resource[Notice] {
	return NewResource[Notice](c, "/notices")
}

func (c *Client) Careers() Resource[Career] {
	return NewResource[Career](c, "/careers")
}

func (c *Client) Branches() BranchResource {
	return BranchResource{NewResource[Branch](c, "/branches")}
}

func (c *Client) Regions() Resource[Region] {
	return NewResource[Region](c, "/regions")
}

func (c *Client) Articles() Resource[Story] {
	return NewResource[Story](c, "/articles")
}

func (c *Client) Blogs() Resource[Story] {
	return NewResource[Story](c, "/blogs")
}

func (c *Client) Gallery() GalleryResource {
	return GalleryResource{
		Resource: NewResource[Story](c, "/gallery"),
		images:   NewResource[GalleryImage](c, "/gallery-images"),
	}
}
