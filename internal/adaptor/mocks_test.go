package adaptor

import (
	"context"

	"costume-rental/internal/dto/request"
	"costume-rental/internal/dto/response"

	"github.com/stretchr/testify/mock"
)

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateHold(ctx context.Context, req *request.CreateBookingRequest) (*response.HoldResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.HoldResponse), args.Error(1)
}

func (m *MockBookingService) GetByReference(ctx context.Context, reference string) (*response.BookingResponse, error) {
	args := m.Called(ctx, reference)
	return bookingResult(args)
}

func (m *MockBookingService) CancelByReference(ctx context.Context, reference string, req *request.CustomerCancelRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, reference, req)
	return bookingResult(args)
}

func (m *MockBookingService) GetByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	return bookingResult(args)
}

func (m *MockBookingService) List(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.PaginatedResponse[response.BookingResponse]), args.Error(1)
}

func (m *MockBookingService) UpdateStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	return bookingResult(args)
}

func (m *MockBookingService) Confirm(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	return bookingResult(args)
}

func (m *MockBookingService) Cancel(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	return bookingResult(args)
}

func (m *MockBookingService) MarkReturned(ctx context.Context, bookingID string, req *request.ReturnBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	return bookingResult(args)
}

func (m *MockBookingService) UpdateDetails(ctx context.Context, bookingID string, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, bookingID, req)
	return bookingResult(args)
}

func (m *MockBookingService) Delete(ctx context.Context, bookingID string) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockBookingService) Sweep(ctx context.Context) int64 {
	args := m.Called(ctx)
	return args.Get(0).(int64)
}

func bookingResult(args mock.Arguments) (*response.BookingResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.BookingResponse), args.Error(1)
}

// MockRefundService
type MockRefundService struct {
	mock.Mock
}

func (m *MockRefundService) GetRefund(ctx context.Context, bookingID string) (*response.RefundResponse, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.RefundResponse), args.Error(1)
}

func (m *MockRefundService) ProcessRefund(ctx context.Context, bookingID string, req *request.ProcessRefundRequest) (*response.RefundResponse, error) {
	args := m.Called(ctx, bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*response.RefundResponse), args.Error(1)
}
