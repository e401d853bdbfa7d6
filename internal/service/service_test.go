package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"DakaHR/internal/evidence"
	"DakaHR/internal/model"
	"DakaHR/internal/model/dto"
	"DakaHR/internal/policy"
	"DakaHR/internal/repository"
	"DakaHR/pkg/logger"
	"DakaHR/pkg/snowflake"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	if err := snowflake.Init(1, 1); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.AttendanceRecord{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, publicID int64, role model.UserRole) *model.User {
	t.Helper()

	user := &model.User{
		PublicID:     publicID,
		Email:        fmt.Sprintf("user%d@example.com", publicID),
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceh",
		FirstName:    "Jane",
		LastName:     "Doe",
		Phone:        "13800000000",
		Role:         role,
		Active:       true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// stubGuard 进程内防重闸与会话缓存，替代 Redis
type stubGuard struct {
	mu       sync.Mutex
	marked   map[string]bool
	statuses map[string]string
}

func newStubGuard() *stubGuard {
	return &stubGuard{marked: map[string]bool{}, statuses: map[string]string{}}
}

func (g *stubGuard) key(userID int64, date, leg string) string {
	return fmt.Sprintf("%d:%s:%s", userID, date, leg)
}

func (g *stubGuard) TryMarkClocking(_ context.Context, userID int64, date, leg string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := g.key(userID, date, leg)
	if g.marked[key] {
		return false, nil
	}
	g.marked[key] = true
	return true, nil
}

func (g *stubGuard) UnmarkClocking(_ context.Context, userID int64, date, leg string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.marked, g.key(userID, date, leg))
	return nil
}

func (g *stubGuard) statusKey(userID int64, date string) string {
	return fmt.Sprintf("%d:%s", userID, date)
}

func (g *stubGuard) GetSessionStatus(_ context.Context, userID int64, date string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statuses[g.statusKey(userID, date)], nil
}

func (g *stubGuard) SetSessionStatus(_ context.Context, userID int64, date, status string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[g.statusKey(userID, date)] = status
	return nil
}

func (g *stubGuard) InvalidateSessionStatus(_ context.Context, userID int64, date string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.statuses, g.statusKey(userID, date))
	return nil
}

// capturingPublisher 记录发出的事件与通知，替代 RabbitMQ
type capturingPublisher struct {
	mu         sync.Mutex
	events     []*model.AttendanceEventMessage
	rejections []model.RejectionNotifyMessage
}

func (p *capturingPublisher) PublishAttendanceEvent(_ context.Context, evt *model.AttendanceEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *capturingPublisher) PublishRejectionNotify(msg model.RejectionNotifyMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rejections = append(p.rejections, msg)
	return nil
}

func (p *capturingPublisher) lastEvent() *model.AttendanceEventMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

func newTestAttendance(t *testing.T) (*AttendanceService, *capturingPublisher, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	pub := &capturingPublisher{}
	svc := NewAttendanceService(
		repository.NewAttendanceRepository(db),
		repository.NewUserRepository(db),
		newStubGuard(),
		pub,
		evidence.NewValidator(5<<20, false),
		policy.Default(),
	)
	return svc, pub, db
}

func newTestVerification(t *testing.T, db *gorm.DB) (*VerificationService, *capturingPublisher) {
	t.Helper()

	pub := &capturingPublisher{}
	svc := NewVerificationService(
		repository.NewAttendanceRepository(db),
		repository.NewUserRepository(db),
		newStubGuard(),
		pub,
	)
	return svc, pub
}

func testPhoto() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("test-photo-bytes"))
}

func clockReq() *dto.ClockRequest {
	return &dto.ClockRequest{
		Photo:        testPhoto(),
		CaptureState: evidence.CaptureStateSubmitted,
	}
}

// at 固定测试日期上的某个时刻
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.Local)
}

func fixNow(svc *AttendanceService, t time.Time) {
	svc.now = func() time.Time { return t }
}
