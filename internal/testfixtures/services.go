package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/booking"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("booking"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("booking")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// BookingServiceDeps captures dependencies for constructing a booking service.
type BookingServiceDeps struct {
	Rooms       application.RoomRepository
	Bookings    application.BookingRepository
	Users       application.UserRepository
	IDGenerator func() string
	Now         func() time.Time
	DecayMode   booking.StrikeDecayMode
	Logger      *slog.Logger
}

// BookingService constructs an application booking service, defaulting the
// clock, identifier generator, and decay mode from the factory.
func (f *ServiceFactory) BookingService(deps BookingServiceDeps) *application.BookingService {
	if deps.IDGenerator == nil {
		deps.IDGenerator = f.IDGenerator.NextFunc()
	}
	if deps.Now == nil {
		deps.Now = f.Clock.NowFunc()
	}
	if !deps.DecayMode.Valid() {
		deps.DecayMode = booking.DecayAlways
	}
	return application.NewBookingServiceWithLogger(
		deps.Rooms,
		deps.Bookings,
		deps.Users,
		deps.IDGenerator,
		deps.Now,
		deps.DecayMode,
		deps.Logger,
	)
}
