package service

import (
	"context"
	"fmt"
	"testing"

	"DakaHR/internal/evidence"
	"DakaHR/internal/model"
	"DakaHR/internal/model/dto"
	"DakaHR/internal/policy"
	"DakaHR/internal/repository"
	"DakaHR/pkg/errors"
)

func TestClockInCreatesRecord(t *testing.T) {
	svc, pub, db := newTestAttendance(t)
	user := seedUser(t, db, 100, model.RoleEmployee)
	fixNow(svc, at(8, 10))
	ctx := context.Background()

	data, err := svc.ClockIn(ctx, user.PublicID, clockReq())
	if err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}

	if data.AttendanceStatus != string(model.AttendancePresent) {
		t.Fatalf("expected Present before cutoff, got %s", data.AttendanceStatus)
	}
	if data.StatusIn != string(model.VerifyStatusPending) {
		t.Fatalf("new leg should be Pending, got %s", data.StatusIn)
	}
	if data.TimeIn == "" || data.TimeOut != "" {
		t.Fatalf("expected open session, got time_in=%q time_out=%q", data.TimeIn, data.TimeOut)
	}
	if data.FullName != "Jane Doe" || data.Initials != "JD" {
		t.Fatalf("display fields not projected: %+v", data)
	}

	evt := pub.lastEvent()
	if evt == nil || evt.Type != model.EventNew {
		t.Fatalf("expected NEW event, got %+v", evt)
	}
	if evt.OwnerUserID != user.PublicID {
		t.Fatalf("event owner mismatch: %d", evt.OwnerUserID)
	}
	if _, ok := evt.Data["photo_in"]; ok {
		t.Fatal("event payload must not carry photos")
	}
}

func TestClockInLateBoundary(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	ctx := context.Background()

	onTime := seedUser(t, db, 101, model.RoleEmployee)
	fixNow(svc, at(8, 15))
	data, err := svc.ClockIn(ctx, onTime.PublicID, clockReq())
	if err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}
	if data.AttendanceStatus != string(model.AttendancePresent) {
		t.Fatalf("08:15 exactly is not late, got %s", data.AttendanceStatus)
	}

	late := seedUser(t, db, 102, model.RoleEmployee)
	fixNow(svc, at(8, 16))
	data, err = svc.ClockIn(ctx, late.PublicID, clockReq())
	if err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}
	if data.AttendanceStatus != string(model.AttendanceLate) {
		t.Fatalf("08:16 is late, got %s", data.AttendanceStatus)
	}
}

func TestClockInTwiceRejected(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	user := seedUser(t, db, 103, model.RoleEmployee)
	fixNow(svc, at(9, 0))
	ctx := context.Background()

	if _, err := svc.ClockIn(ctx, user.PublicID, clockReq()); err != nil {
		t.Fatalf("first clock-in failed: %v", err)
	}

	fixNow(svc, at(9, 5))
	if _, err := svc.ClockIn(ctx, user.PublicID, clockReq()); err != errors.InvalidState {
		t.Fatalf("second clock-in should be InvalidState, got %v", err)
	}
}

func TestClockInRejectsBadEvidence(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	user := seedUser(t, db, 104, model.RoleEmployee)
	fixNow(svc, at(9, 0))
	ctx := context.Background()

	req := clockReq()
	req.CaptureState = "viewfinder"
	if _, err := svc.ClockIn(ctx, user.PublicID, req); err != errors.EvidenceInvalid {
		t.Fatalf("expected EvidenceInvalid, got %v", err)
	}

	req = clockReq()
	req.Photo = "not-a-data-uri"
	if _, err := svc.ClockIn(ctx, user.PublicID, req); err != errors.EvidenceInvalid {
		t.Fatalf("expected EvidenceInvalid for bad photo, got %v", err)
	}
}

func TestClockOutDerivesStatus(t *testing.T) {
	cases := []struct {
		name    string
		userID  int64
		inAt    [2]int
		outAt   [2]int
		want    model.AttendanceStatus
	}{
		{"full day", 110, [2]int{8, 0}, [2]int{17, 0}, model.AttendancePresent},
		{"undertime at 16:59", 111, [2]int{8, 0}, [2]int{16, 59}, model.AttendanceUndertime},
		{"late and undertime", 112, [2]int{9, 30}, [2]int{15, 0}, model.AttendanceHalfDay},
		{"late only", 113, [2]int{9, 30}, [2]int{18, 0}, model.AttendanceLate},
	}

	svc, pub, db := newTestAttendance(t)
	ctx := context.Background()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := seedUser(t, db, tc.userID, model.RoleEmployee)

			fixNow(svc, at(tc.inAt[0], tc.inAt[1]))
			if _, err := svc.ClockIn(ctx, user.PublicID, clockReq()); err != nil {
				t.Fatalf("clock-in failed: %v", err)
			}

			fixNow(svc, at(tc.outAt[0], tc.outAt[1]))
			data, err := svc.ClockOut(ctx, user.PublicID, clockReq())
			if err != nil {
				t.Fatalf("clock-out failed: %v", err)
			}
			if data.AttendanceStatus != string(tc.want) {
				t.Fatalf("expected %s, got %s", tc.want, data.AttendanceStatus)
			}
			if data.StatusOut != string(model.VerifyStatusPending) {
				t.Fatalf("new out leg should be Pending, got %s", data.StatusOut)
			}

			evt := pub.lastEvent()
			if evt == nil || evt.Type != model.EventUpdate {
				t.Fatalf("clock-out should publish UPDATE, got %+v", evt)
			}
			if evt.Data["session_status"] != string(model.SessionCompleted) {
				t.Fatalf("session should be completed, got %v", evt.Data["session_status"])
			}
		})
	}
}

func TestClockOutWithoutOpenSession(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	user := seedUser(t, db, 120, model.RoleEmployee)
	fixNow(svc, at(17, 30))
	ctx := context.Background()

	if _, err := svc.ClockOut(ctx, user.PublicID, clockReq()); err != errors.InvalidState {
		t.Fatalf("clock-out with no open session should be InvalidState, got %v", err)
	}
}

func TestClockOutTwiceRejected(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	user := seedUser(t, db, 121, model.RoleEmployee)
	ctx := context.Background()

	fixNow(svc, at(8, 0))
	if _, err := svc.ClockIn(ctx, user.PublicID, clockReq()); err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}
	fixNow(svc, at(17, 10))
	if _, err := svc.ClockOut(ctx, user.PublicID, clockReq()); err != nil {
		t.Fatalf("clock-out failed: %v", err)
	}

	fixNow(svc, at(17, 20))
	if _, err := svc.ClockOut(ctx, user.PublicID, clockReq()); err != errors.InvalidState {
		t.Fatalf("second clock-out should be InvalidState, got %v", err)
	}
}

func TestTodayStatusTransitions(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	user := seedUser(t, db, 130, model.RoleEmployee)
	ctx := context.Background()

	fixNow(svc, at(7, 50))
	status, err := svc.TodayStatus(ctx, user.PublicID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.Status != string(model.SessionIdle) || status.Record != nil {
		t.Fatalf("expected idle with no record, got %+v", status)
	}

	fixNow(svc, at(8, 0))
	if _, err := svc.ClockIn(ctx, user.PublicID, clockReq()); err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}
	status, _ = svc.TodayStatus(ctx, user.PublicID)
	if status.Status != string(model.SessionClockedIn) || status.Record == nil {
		t.Fatalf("expected clocked_in with record, got %+v", status)
	}

	fixNow(svc, at(17, 5))
	if _, err := svc.ClockOut(ctx, user.PublicID, clockReq()); err != nil {
		t.Fatalf("clock-out failed: %v", err)
	}
	status, _ = svc.TodayStatus(ctx, user.PublicID)
	if status.Status != string(model.SessionCompleted) {
		t.Fatalf("expected completed, got %s", status.Status)
	}
}

func TestTodayStatusUsesSessionCache(t *testing.T) {
	db := newTestDB(t)
	guard := newStubGuard()
	svc := NewAttendanceService(
		repository.NewAttendanceRepository(db),
		repository.NewUserRepository(db),
		guard,
		&capturingPublisher{},
		evidence.NewValidator(5<<20, false),
		policy.Default(),
	)
	user := seedUser(t, db, 135, model.RoleEmployee)
	ctx := context.Background()

	fixNow(svc, at(8, 0))
	if _, err := svc.ClockIn(ctx, user.PublicID, clockReq()); err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}

	// 未命中：实时推导、回填缓存，响应携带记录本体
	status, err := svc.TodayStatus(ctx, user.PublicID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.Status != string(model.SessionClockedIn) || status.Record == nil {
		t.Fatalf("expected derived clocked_in with record, got %+v", status)
	}
	if cached, _ := guard.GetSessionStatus(ctx, user.PublicID, "2026-03-02"); cached != string(model.SessionClockedIn) {
		t.Fatalf("derived status should be cached, got %q", cached)
	}

	// 命中：直接返回缓存状态，不再查库
	if err := guard.SetSessionStatus(ctx, user.PublicID, "2026-03-02", string(model.SessionCompleted)); err != nil {
		t.Fatalf("seed cache failed: %v", err)
	}
	status, err = svc.TodayStatus(ctx, user.PublicID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.Status != string(model.SessionCompleted) || status.Record != nil {
		t.Fatalf("cache hit should return the cached status only, got %+v", status)
	}

	// 记录变更失效缓存，状态重新推导
	fixNow(svc, at(17, 5))
	if _, err := svc.ClockOut(ctx, user.PublicID, clockReq()); err != nil {
		t.Fatalf("clock-out failed: %v", err)
	}
	if cached, _ := guard.GetSessionStatus(ctx, user.PublicID, "2026-03-02"); cached != "" {
		t.Fatalf("mutation should invalidate the cache, got %q", cached)
	}
	status, err = svc.TodayStatus(ctx, user.PublicID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.Status != string(model.SessionCompleted) || status.Record == nil {
		t.Fatalf("expected re-derived completed with record, got %+v", status)
	}
}

func TestManualCreateAbsentClearsTimes(t *testing.T) {
	svc, pub, db := newTestAttendance(t)
	user := seedUser(t, db, 140, model.RoleEmployee)
	ctx := context.Background()

	data, err := svc.ManualCreate(ctx, &dto.ManualEntryRequest{
		UserID:           "140",
		Date:             "2026-03-03",
		TimeIn:           "2026-03-03T08:00:00+08:00",
		TimeOut:          "2026-03-03T17:00:00+08:00",
		AttendanceStatus: string(model.AttendanceAbsent),
	})
	if err != nil {
		t.Fatalf("manual create failed: %v", err)
	}

	if data.TimeIn != "" || data.TimeOut != "" {
		t.Fatalf("Absent entry must drop both times, got in=%q out=%q", data.TimeIn, data.TimeOut)
	}
	if data.StatusIn != "" || data.StatusOut != "" {
		t.Fatalf("legs without times must not carry verification status")
	}
	if data.AttendanceStatus != string(model.AttendanceAbsent) {
		t.Fatalf("expected Absent, got %s", data.AttendanceStatus)
	}

	evt := pub.lastEvent()
	if evt == nil || evt.Type != model.EventNew || evt.OwnerUserID != user.PublicID {
		t.Fatalf("expected NEW event for owner, got %+v", evt)
	}
}

func TestManualCreateDuplicateDate(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	seedUser(t, db, 141, model.RoleEmployee)
	ctx := context.Background()

	req := &dto.ManualEntryRequest{
		UserID:           "141",
		Date:             "2026-03-03",
		AttendanceStatus: string(model.AttendanceAbsent),
	}
	if _, err := svc.ManualCreate(ctx, req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.ManualCreate(ctx, req); err != errors.RecordExists {
		t.Fatalf("duplicate date should be RecordExists, got %v", err)
	}
}

func TestManualCreateValidation(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	seedUser(t, db, 142, model.RoleEmployee)
	ctx := context.Background()

	if _, err := svc.ManualCreate(ctx, &dto.ManualEntryRequest{
		UserID: "not-a-number", Date: "2026-03-03", AttendanceStatus: "Present",
	}); err != errors.InvalidUserID {
		t.Fatalf("expected InvalidUserID, got %v", err)
	}

	if _, err := svc.ManualCreate(ctx, &dto.ManualEntryRequest{
		UserID: "999", Date: "2026-03-03", AttendanceStatus: "Present",
	}); err != errors.UserNotFound {
		t.Fatalf("expected UserNotFound, got %v", err)
	}

	// 下班时间早于上班时间
	if _, err := svc.ManualCreate(ctx, &dto.ManualEntryRequest{
		UserID:           "142",
		Date:             "2026-03-03",
		TimeIn:           "2026-03-03T17:00:00+08:00",
		TimeOut:          "2026-03-03T08:00:00+08:00",
		AttendanceStatus: "Present",
	}); err != errors.ValidationError {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateRevalidatesInvariants(t *testing.T) {
	svc, pub, db := newTestAttendance(t)
	user := seedUser(t, db, 150, model.RoleEmployee)
	ctx := context.Background()

	fixNow(svc, at(8, 0))
	data, err := svc.ClockIn(ctx, user.PublicID, clockReq())
	if err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}

	// time_out 早于 time_in
	if _, err := svc.Update(ctx, mustID(t, data.ID), &dto.UpdateAttendanceRequest{
		TimeOut: "2026-03-02T07:00:00+08:00",
	}); err != errors.ValidationError {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// 改为 Absent 清空两腿
	updated, err := svc.Update(ctx, mustID(t, data.ID), &dto.UpdateAttendanceRequest{
		AttendanceStatus: string(model.AttendanceAbsent),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.TimeIn != "" || updated.StatusIn != "" || updated.PhotoIn != "" {
		t.Fatalf("Absent must clear the in leg, got %+v", updated)
	}

	evt := pub.lastEvent()
	if evt == nil || evt.Type != model.EventUpdate {
		t.Fatalf("update should publish UPDATE event, got %+v", evt)
	}
}

func TestUpdateDateConflict(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	seedUser(t, db, 151, model.RoleEmployee)
	ctx := context.Background()

	first, err := svc.ManualCreate(ctx, &dto.ManualEntryRequest{
		UserID: "151", Date: "2026-03-03", AttendanceStatus: string(model.AttendanceAbsent),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.ManualCreate(ctx, &dto.ManualEntryRequest{
		UserID: "151", Date: "2026-03-04", AttendanceStatus: string(model.AttendanceAbsent),
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(ctx, mustID(t, first.ID), &dto.UpdateAttendanceRequest{
		Date: "2026-03-04",
	}); err != errors.RecordExists {
		t.Fatalf("moving onto an occupied date should be RecordExists, got %v", err)
	}
}

func TestDeletePublishesDeleteEvent(t *testing.T) {
	svc, pub, db := newTestAttendance(t)
	user := seedUser(t, db, 160, model.RoleEmployee)
	ctx := context.Background()

	data, err := svc.ManualCreate(ctx, &dto.ManualEntryRequest{
		UserID: "160", Date: "2026-03-03", AttendanceStatus: string(model.AttendanceAbsent),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(ctx, mustID(t, data.ID)); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	evt := pub.lastEvent()
	if evt == nil || evt.Type != model.EventDelete {
		t.Fatalf("expected DELETE event, got %+v", evt)
	}
	if evt.OwnerUserID != user.PublicID {
		t.Fatalf("event owner mismatch: %d", evt.OwnerUserID)
	}
	if evt.Data["id"] != data.ID {
		t.Fatalf("DELETE event must carry the record id, got %v", evt.Data)
	}

	if err := svc.Delete(ctx, mustID(t, data.ID)); err != errors.NotFound {
		t.Fatalf("second delete should be NotFound, got %v", err)
	}
}

func TestListScopedByCapability(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	alice := seedUser(t, db, 170, model.RoleEmployee)
	bob := seedUser(t, db, 171, model.RoleEmployee)
	boss := seedUser(t, db, 172, model.RoleSupervisor)
	ctx := context.Background()

	fixNow(svc, at(8, 0))
	if _, err := svc.ClockIn(ctx, alice.PublicID, clockReq()); err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}
	fixNow(svc, at(8, 5))
	if _, err := svc.ClockIn(ctx, bob.PublicID, clockReq()); err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}

	own, err := svc.ListForDate(ctx, Viewer{UserID: alice.PublicID, Role: alice.Role}, "2026-03-02")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(own) != 1 || own[0].UserID != "170" {
		t.Fatalf("employee should only see own records, got %+v", own)
	}

	all, err := svc.ListForDate(ctx, Viewer{UserID: boss.PublicID, Role: boss.Role}, "2026-03-02")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("supervisor should see all records, got %d", len(all))
	}
}

func TestHistoryScopedAndFiltered(t *testing.T) {
	svc, _, db := newTestAttendance(t)
	alice := seedUser(t, db, 180, model.RoleEmployee)
	seedUser(t, db, 181, model.RoleEmployee)
	ctx := context.Background()

	for i, req := range []*dto.ManualEntryRequest{
		{UserID: "180", Date: "2026-03-03", AttendanceStatus: string(model.AttendanceAbsent)},
		{UserID: "180", Date: "2026-03-04", AttendanceStatus: string(model.AttendanceAbsent)},
		{UserID: "181", Date: "2026-03-03", AttendanceStatus: string(model.AttendanceAbsent)},
	} {
		if _, err := svc.ManualCreate(ctx, req); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	records, total, err := svc.History(ctx, Viewer{UserID: alice.PublicID, Role: alice.Role}, &dto.AttendanceHistoryQuery{})
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if total != 2 || len(records) != 2 {
		t.Fatalf("employee history should be scoped to own records, got total=%d", total)
	}

	records, total, err = svc.History(ctx, Viewer{UserID: alice.PublicID, Role: alice.Role}, &dto.AttendanceHistoryQuery{
		From: "2026-03-04",
	})
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if total != 1 || records[0].Date != "2026-03-04" {
		t.Fatalf("date filter not applied, got total=%d", total)
	}

	if _, _, err := svc.History(ctx, Viewer{UserID: alice.PublicID, Role: alice.Role}, &dto.AttendanceHistoryQuery{
		Status: "NotAStatus",
	}); err != errors.ValidationError {
		t.Fatalf("bad status filter should be ValidationError, got %v", err)
	}
}

func mustID(t *testing.T, id string) int64 {
	t.Helper()
	var v int64
	if _, err := fmt.Sscanf(id, "%d", &v); err != nil {
		t.Fatalf("bad record id %q: %v", id, err)
	}
	return v
}
