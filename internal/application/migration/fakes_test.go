package migration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/consignment/backend/internal/domain/catalog"
	"github.com/consignment/backend/internal/domain/consignment"
	"github.com/consignment/backend/internal/domain/loyalty"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/domain/partner"
	"github.com/consignment/backend/internal/domain/shared"
	"github.com/consignment/backend/internal/domain/trade"
	"github.com/consignment/backend/internal/infrastructure/images"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore backs the in-memory repositories shared by one test run
type memStore struct {
	customers     []*partner.Customer
	submissions   []*consignment.Submission
	brands        []*catalog.Brand
	categories    []*catalog.Category
	attributes    []*catalog.Attribute
	values        []*catalog.AttributeValue
	lines         []*catalog.ProductAttributeLine
	products      []*catalog.Product
	productImages []*catalog.ProductImage
	orders        []*trade.Order
	orderLines    []*trade.OrderLine
	vouchers      []*loyalty.Voucher
}

type memCustomerRepo struct{ s *memStore }

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	for _, c := range r.s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindByLegacyID(_ context.Context, legacyID string) (*partner.Customer, error) {
	if legacyID == "" {
		return nil, shared.ErrNotFound
	}
	for _, c := range r.s.customers {
		if c.LegacyID == legacyID {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindByEmail(_ context.Context, email string) (*partner.Customer, error) {
	if email == "" {
		return nil, shared.ErrNotFound
	}
	for _, c := range r.s.customers {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindByName(_ context.Context, name string) (*partner.Customer, error) {
	for _, c := range r.s.customers {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	for i, c := range r.s.customers {
		if c.ID == customer.ID {
			r.s.customers[i] = customer
			return nil
		}
	}
	r.s.customers = append(r.s.customers, customer)
	return nil
}

func (r *memCustomerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.customers)), nil
}

type memSubmissionRepo struct{ s *memStore }

func (r *memSubmissionRepo) FindByID(_ context.Context, id uuid.UUID) (*consignment.Submission, error) {
	for _, sub := range r.s.submissions {
		if sub.ID == id {
			return sub, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSubmissionRepo) FindByLegacyID(_ context.Context, legacyID string) (*consignment.Submission, error) {
	if legacyID == "" {
		return nil, shared.ErrNotFound
	}
	for _, sub := range r.s.submissions {
		if sub.LegacyID == legacyID {
			return sub, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSubmissionRepo) FindByName(_ context.Context, name string) (*consignment.Submission, error) {
	for _, sub := range r.s.submissions {
		if sub.Name == name {
			return sub, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSubmissionRepo) Save(_ context.Context, submission *consignment.Submission) error {
	for i, sub := range r.s.submissions {
		if sub.ID == submission.ID {
			r.s.submissions[i] = submission
			return nil
		}
	}
	r.s.submissions = append(r.s.submissions, submission)
	return nil
}

func (r *memSubmissionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.submissions)), nil
}

type memBrandRepo struct{ s *memStore }

func (r *memBrandRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Brand, error) {
	for _, b := range r.s.brands {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBrandRepo) FindByName(_ context.Context, name string) (*catalog.Brand, error) {
	for _, b := range r.s.brands {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBrandRepo) Save(_ context.Context, brand *catalog.Brand) error {
	for i, b := range r.s.brands {
		if b.ID == brand.ID {
			r.s.brands[i] = brand
			return nil
		}
	}
	r.s.brands = append(r.s.brands, brand)
	return nil
}

func (r *memBrandRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.brands)), nil
}

type memCategoryRepo struct{ s *memStore }

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	for _, c := range r.s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) FindByNameAndParent(_ context.Context, name string, parentID *uuid.UUID, kind catalog.CategoryKind) (*catalog.Category, error) {
	for _, c := range r.s.categories {
		if c.Name != name || c.Kind != kind {
			continue
		}
		if parentID == nil && c.ParentID == nil {
			return c, nil
		}
		if parentID != nil && c.ParentID != nil && *parentID == *c.ParentID {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) Save(_ context.Context, category *catalog.Category) error {
	for i, c := range r.s.categories {
		if c.ID == category.ID {
			r.s.categories[i] = category
			return nil
		}
	}
	r.s.categories = append(r.s.categories, category)
	return nil
}

type memAttributeRepo struct{ s *memStore }

func (r *memAttributeRepo) FindAttributeByName(_ context.Context, name string) (*catalog.Attribute, error) {
	for _, a := range r.s.attributes {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAttributeRepo) FindValue(_ context.Context, attributeID uuid.UUID, name string) (*catalog.AttributeValue, error) {
	for _, v := range r.s.values {
		if v.AttributeID == attributeID && v.Name == name {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAttributeRepo) SaveAttribute(_ context.Context, attribute *catalog.Attribute) error {
	r.s.attributes = append(r.s.attributes, attribute)
	return nil
}

func (r *memAttributeRepo) SaveValue(_ context.Context, value *catalog.AttributeValue) error {
	r.s.values = append(r.s.values, value)
	return nil
}

func (r *memAttributeRepo) SaveLine(_ context.Context, line *catalog.ProductAttributeLine) error {
	for _, l := range r.s.lines {
		if l.ProductID == line.ProductID && l.AttributeID == line.AttributeID && l.AttributeValueID == line.AttributeValueID {
			return nil
		}
	}
	r.s.lines = append(r.s.lines, line)
	return nil
}

func (r *memAttributeRepo) FindLines(_ context.Context, productID uuid.UUID) ([]catalog.ProductAttributeLine, error) {
	var lines []catalog.ProductAttributeLine
	for _, l := range r.s.lines {
		if l.ProductID == productID {
			lines = append(lines, *l)
		}
	}
	return lines, nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range r.s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByLegacyID(_ context.Context, legacyID string) (*catalog.Product, error) {
	if legacyID == "" {
		return nil, shared.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.LegacyID == legacyID {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	if code == "" {
		return nil, shared.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) CountBySubmission(_ context.Context, submissionID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.s.products {
		if p.SubmissionID == submissionID {
			n++
		}
	}
	return n, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	for i, p := range r.s.products {
		if p.ID == product.ID {
			r.s.products[i] = product
			return nil
		}
	}
	r.s.products = append(r.s.products, product)
	return nil
}

func (r *memProductRepo) SaveImage(_ context.Context, image *catalog.ProductImage) error {
	for i, img := range r.s.productImages {
		if img.ID == image.ID {
			r.s.productImages[i] = image
			return nil
		}
	}
	r.s.productImages = append(r.s.productImages, image)
	return nil
}

func (r *memProductRepo) FindImages(_ context.Context, productID uuid.UUID) ([]catalog.ProductImage, error) {
	var images []catalog.ProductImage
	for _, img := range r.s.productImages {
		if img.ProductID == productID {
			images = append(images, *img)
		}
	}
	return images, nil
}

func (r *memProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.products)), nil
}

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Order, error) {
	for _, o := range r.s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindByReference(_ context.Context, reference string) (*trade.Order, error) {
	for _, o := range r.s.orders {
		if o.Reference == reference {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindByLegacyID(_ context.Context, legacyID string) (*trade.Order, error) {
	if legacyID == "" {
		return nil, shared.ErrNotFound
	}
	for _, o := range r.s.orders {
		if o.LegacyID == legacyID {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindLineByLegacyID(_ context.Context, legacyLineID string) (*trade.OrderLine, error) {
	if legacyLineID == "" {
		return nil, shared.ErrNotFound
	}
	for _, l := range r.s.orderLines {
		if l.LegacyLineID == legacyLineID {
			return l, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) Save(_ context.Context, order *trade.Order) error {
	for i, o := range r.s.orders {
		if o.ID == order.ID {
			r.s.orders[i] = order
			return nil
		}
	}
	r.s.orders = append(r.s.orders, order)
	return nil
}

func (r *memOrderRepo) SaveLine(_ context.Context, line *trade.OrderLine) error {
	for i, l := range r.s.orderLines {
		if l.ID == line.ID {
			r.s.orderLines[i] = line
			return nil
		}
	}
	r.s.orderLines = append(r.s.orderLines, line)
	return nil
}

func (r *memOrderRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.orders)), nil
}

type memVoucherRepo struct{ s *memStore }

func (r *memVoucherRepo) FindByID(_ context.Context, id uuid.UUID) (*loyalty.Voucher, error) {
	for _, v := range r.s.vouchers {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memVoucherRepo) FindByCode(_ context.Context, code string) (*loyalty.Voucher, error) {
	for _, v := range r.s.vouchers {
		if v.Code == code {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memVoucherRepo) Save(_ context.Context, voucher *loyalty.Voucher) error {
	r.s.vouchers = append(r.s.vouchers, voucher)
	return nil
}

func (r *memVoucherRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.vouchers)), nil
}

// memUnitOfWork runs each batch directly against the shared store
// failingCustomerRepo simulates a broken store underneath the name
// lookup.
type failingCustomerRepo struct {
	partner.CustomerRepository
	err error
}

func (r *failingCustomerRepo) FindByName(context.Context, string) (*partner.Customer, error) {
	return nil, r.err
}

type memUnitOfWork struct{ repos migration.Repos }

func (u *memUnitOfWork) WithinBatch(_ context.Context, fn func(migration.Repos) error) error {
	return fn(u.repos)
}

func newMemUnitOfWork(s *memStore) *memUnitOfWork {
	return &memUnitOfWork{repos: migration.Repos{
		Customers:   &memCustomerRepo{s},
		Submissions: &memSubmissionRepo{s},
		Brands:      &memBrandRepo{s},
		Categories:  &memCategoryRepo{s},
		Attributes:  &memAttributeRepo{s},
		Products:    &memProductRepo{s},
		Orders:      &memOrderRepo{s},
		Vouchers:    &memVoucherRepo{s},
	}}
}

func testRules() migration.Rules {
	return migration.Rules{
		Cutoff:           time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
		ExemptLegacyCode: "20250012",
		PaidFallbackDate: time.Date(2022, 8, 31, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(t *testing.T) (*Service, *memStore) {
	t.Helper()
	store := &memStore{}
	fetcher := images.NewFetcher(t.TempDir(), "", time.Second, zap.NewNop())
	svc := NewService(newMemUnitOfWork(store), fetcher, testRules(), 100, zap.NewNop())
	require.NoError(t, svc.ensureMigrationRecords(context.Background()))
	return svc, store
}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}
