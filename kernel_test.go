package kernel

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embedkit/kernel/config"
	"github.com/embedkit/kernel/container"
)

// testLogger records log calls for assertions.
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *testLogger) Info(msg string, args ...any)  { l.log(msg) }
func (l *testLogger) Error(msg string, args ...any) { l.log(msg) }
func (l *testLogger) Warn(msg string, args ...any)  { l.log(msg) }
func (l *testLogger) Debug(msg string, args ...any) { l.log(msg) }

// testProvider records its hook invocations.
type testProvider struct {
	name        string
	registered  int
	inited      int
	registerErr error
	initErr     error
	onRegister  func(k *Kernel) error
	onInit      func(k *Kernel) error
}

func (p *testProvider) Register(k *Kernel) error {
	p.registered++
	if p.onRegister != nil {
		return p.onRegister(k)
	}
	return p.registerErr
}

func (p *testProvider) Init(k *Kernel) error {
	p.inited++
	if p.onInit != nil {
		return p.onInit(k)
	}
	return p.initErr
}

// testUnit records its bootstrap invocations.
type testUnit struct {
	name         string
	bootstrapped int
	err          error
	onBootstrap  func(k *Kernel) error
}

func (u *testUnit) Bootstrap(k *Kernel) error {
	u.bootstrapped++
	if u.onBootstrap != nil {
		return u.onBootstrap(k)
	}
	return u.err
}

func newRunningKernel(t *testing.T, opts ...Option) *Kernel {
	t.Helper()
	k, err := New(opts...)
	require.NoError(t, err)
	require.NoError(t, k.Bootstrap([]Bootstrapper{}))
	require.NoError(t, k.Init())
	return k
}

func TestNewDefaults(t *testing.T) {
	k, err := New()
	require.NoError(t, err)

	assert.Equal(t, ProcessConstruct, k.Process())
	assert.False(t, k.IsBootstrapped())
	assert.False(t, k.IsInited())
	assert.NotNil(t, k.Container())
	assert.Nil(t, k.Dispatcher())
	assert.Zero(t, k.DebugLevel())
}

func TestNewPublishesKernelService(t *testing.T) {
	k, err := New()
	require.NoError(t, err)

	svc, err := k.Resolve(ServiceKernel)
	require.NoError(t, err)
	assert.Same(t, k, svc)

	name, err := k.Container().NameForType(reflect.TypeOf(k))
	require.NoError(t, err)
	assert.Equal(t, ServiceKernel, name)
}

func TestActiveInstanceDesignation(t *testing.T) {
	activeInstance.Store(nil)

	k, err := New(AsActiveInstance())
	require.NoError(t, err)
	assert.Same(t, k, Active())

	other, err := New()
	require.NoError(t, err)
	assert.Same(t, k, Active(), "constructing without the option must not steal the designation")

	// Terminating a non-active instance leaves the designation untouched.
	other.Terminate()
	assert.Same(t, k, Active())

	k.Terminate()
	assert.Nil(t, Active())
}

func TestSetDebugLevelRepublishes(t *testing.T) {
	k, err := New(WithDebugLevel(2))
	require.NoError(t, err)
	assert.Equal(t, 2, k.DebugLevel())

	level, err := container.As[int](k.Container(), ServiceDebugLevel)
	require.NoError(t, err)
	assert.Equal(t, 2, level)

	k.SetDebugLevel(5)
	level, err = container.As[int](k.Container(), ServiceDebugLevel)
	require.NoError(t, err)
	assert.Equal(t, 5, level)
}

func TestSetDispatcherPublishes(t *testing.T) {
	k, err := New()
	require.NoError(t, err)

	bus := NewEventBus()
	k.SetDispatcher(bus)
	assert.Same(t, bus, k.Dispatcher())

	svc, err := container.As[Dispatcher](k.Container(), ServiceDispatcher)
	require.NoError(t, err)
	assert.Same(t, bus, svc)

	dispatcherType := reflect.TypeOf((*Dispatcher)(nil)).Elem()
	name, err := k.Container().NameForType(dispatcherType)
	require.NoError(t, err)
	assert.Equal(t, ServiceDispatcher, name)
}

func TestWithConfig(t *testing.T) {
	activeInstance.Store(nil)

	cfg := &config.Config{DebugLevel: 3, ActivateInstance: true}
	k, err := New(WithConfig(cfg))
	require.NoError(t, err)

	assert.Equal(t, 3, k.DebugLevel())
	assert.Same(t, k, Active())
	k.Terminate()
}

func TestWithConfigNil(t *testing.T) {
	_, err := New(WithConfig(nil))
	require.ErrorIs(t, err, ErrNilConfig)
}

func TestWithDispatcherNil(t *testing.T) {
	_, err := New(WithDispatcher(nil))
	require.ErrorIs(t, err, ErrNilDispatcher)
}
