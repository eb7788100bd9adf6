package brandtest

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/JakeFAU/storefront-insights/internal/brand"
)

// MockStructurer is a testify mock of brand.TextStructurer.
type MockStructurer struct {
	mock.Mock
}

// Enabled is the mock implementation of the Enabled method.
func (m *MockStructurer) Enabled() bool {
	return m.Called().Bool(0)
}

// StructureFAQs is the mock implementation of the StructureFAQs method.
func (m *MockStructurer) StructureFAQs(ctx context.Context, rawText string) ([]brand.FAQ, error) {
	args := m.Called(ctx, rawText)
	faqs, _ := args.Get(0).([]brand.FAQ)
	return faqs, args.Error(1)
}

// ExtractContactInfo is the mock implementation of the ExtractContactInfo method.
func (m *MockStructurer) ExtractContactInfo(ctx context.Context, rawText string) (*brand.ContactInfo, error) {
	args := m.Called(ctx, rawText)
	info, _ := args.Get(0).(*brand.ContactInfo)
	return info, args.Error(1)
}

// EnhanceDescription is the mock implementation of the EnhanceDescription method.
func (m *MockStructurer) EnhanceDescription(ctx context.Context, rawAbout, brandName string) (string, error) {
	args := m.Called(ctx, rawAbout, brandName)
	return args.String(0), args.Error(1)
}

// ExtractSocialHandles is the mock implementation of the ExtractSocialHandles method.
func (m *MockStructurer) ExtractSocialHandles(ctx context.Context, rawText string) ([]brand.SocialHandle, error) {
	args := m.Called(ctx, rawText)
	handles, _ := args.Get(0).([]brand.SocialHandle)
	return handles, args.Error(1)
}

// Similarity is the mock implementation of the Similarity method.
func (m *MockStructurer) Similarity(ctx context.Context, a, b brand.Summary) (float64, error) {
	args := m.Called(ctx, a, b)
	return args.Get(0).(float64), args.Error(1)
}

// SearchTerms is the mock implementation of the SearchTerms method.
func (m *MockStructurer) SearchTerms(ctx context.Context, summary brand.Summary) ([]string, error) {
	args := m.Called(ctx, summary)
	terms, _ := args.Get(0).([]string)
	return terms, args.Error(1)
}

// MockStore is a testify mock of brand.Store.
type MockStore struct {
	mock.Mock
}

// Save is the mock implementation of the Save method.
func (m *MockStore) Save(ctx context.Context, bc *brand.Context) (int64, error) {
	args := m.Called(ctx, bc)
	return args.Get(0).(int64), args.Error(1)
}

// Get is the mock implementation of the Get method.
func (m *MockStore) Get(ctx context.Context, websiteURL string) (*brand.Context, error) {
	args := m.Called(ctx, websiteURL)
	bc, _ := args.Get(0).(*brand.Context)
	return bc, args.Error(1)
}

// MockBlobStore is a testify mock of brand.BlobStore.
type MockBlobStore struct {
	mock.Mock
}

// PutObject is the mock implementation of the PutObject method.
func (m *MockBlobStore) PutObject(ctx context.Context, path, contentType string, data io.Reader) (string, error) {
	args := m.Called(ctx, path, contentType, data)
	return args.String(0), args.Error(1)
}

// MockPublisher is a testify mock of brand.Publisher.
type MockPublisher struct {
	mock.Mock
}

// Publish is the mock implementation of the Publish method.
func (m *MockPublisher) Publish(ctx context.Context, topic string, payload any) (string, error) {
	args := m.Called(ctx, topic, payload)
	return args.String(0), args.Error(1)
}
