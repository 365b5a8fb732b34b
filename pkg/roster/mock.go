package roster

import (
	"context"
	"strings"
	"sync"
)

// MockClient is a mock roster client for testing
type MockClient struct {
	mu         sync.Mutex
	students   []Student
	orders     map[string]CanteenOrder // keyed by lower-cased student id
	baseURL    string
	token      string
	resolveErr error
	ordersErr  error
	listErr    error
	calls      int
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithStudents sets the roster to serve
func WithStudents(students []Student) MockOption {
	return func(m *MockClient) {
		m.students = students
	}
}

// WithCanteenOrder registers a pending order for a student
func WithCanteenOrder(studentID string, order CanteenOrder) MockOption {
	return func(m *MockClient) {
		m.orders[strings.ToLower(studentID)] = order
	}
}

// WithResolveError sets an error to return from ResolveIdentity
func WithResolveError(err error) MockOption {
	return func(m *MockClient) {
		m.resolveErr = err
	}
}

// WithOrdersError sets an error to return from ActiveCanteenOrder
func WithOrdersError(err error) MockOption {
	return func(m *MockClient) {
		m.ordersErr = err
	}
}

// WithListError sets an error to return from ListStudents
func WithListError(err error) MockOption {
	return func(m *MockClient) {
		m.listErr = err
	}
}

// NewMockClient creates a new mock roster client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		baseURL:  "http://mock-roster.local",
		students: DefaultMockStudents(),
		orders:   make(map[string]CanteenOrder),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// SetToken records the token
func (m *MockClient) SetToken(token string) {
	m.token = token
}

// ResolveIdentity finds a student by id, ignoring case and surrounding space
func (m *MockClient) ResolveIdentity(ctx context.Context, schoolID, raw string) (*Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, s := range m.students {
		if strings.ToLower(s.ID.String()) == key && strings.EqualFold(s.SchoolID, schoolID) {
			found := s
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// ActiveCanteenOrder returns the registered order or ErrNotFound
func (m *MockClient) ActiveCanteenOrder(ctx context.Context, schoolID, studentID string) (*CanteenOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ordersErr != nil {
		return nil, m.ordersErr
	}
	order, ok := m.orders[strings.ToLower(strings.TrimSpace(studentID))]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

// ListStudents returns the configured students for a school
func (m *MockClient) ListStudents(ctx context.Context, schoolID string) ([]Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Student
	for _, s := range m.students {
		if strings.EqualFold(s.SchoolID, schoolID) {
			out = append(out, s)
		}
	}
	return out, nil
}

// ResolveCalls returns how many times ResolveIdentity was called (for testing)
func (m *MockClient) ResolveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// DefaultMockStudents returns a set of sample students for testing
func DefaultMockStudents() []Student {
	return []Student{
		{ID: "stu001", SchoolID: "s1", Name: "Ada Obi", Class: "JSS1"},
		{ID: "stu002", SchoolID: "s1", Name: "Bola Ade", Class: "JSS2"},
		{ID: "stu003", SchoolID: "s1", Name: "Chidi Eze", Class: "SS1"},
		{ID: "stu100", SchoolID: "s2", Name: "Dayo Kalu", Class: "SS3"},
	}
}
