package service

import (
	"context"
	"strconv"
	"testing"

	"DakaHR/internal/model"
	"DakaHR/internal/model/dto"
	"DakaHR/pkg/errors"
)

// 造一条已完成两腿打卡的记录，返回 public_id
func seedCompletedRecord(t *testing.T, svc *AttendanceService, userID int64) int64 {
	t.Helper()
	ctx := context.Background()

	fixNow(svc, at(8, 0))
	if _, err := svc.ClockIn(ctx, userID, clockReq()); err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}
	fixNow(svc, at(17, 10))
	data, err := svc.ClockOut(ctx, userID, clockReq())
	if err != nil {
		t.Fatalf("clock-out failed: %v", err)
	}

	id, err := strconv.ParseInt(data.ID, 10, 64)
	if err != nil {
		t.Fatalf("bad record id: %v", err)
	}
	return id
}

func TestVerifyLegIndependent(t *testing.T) {
	att, _, db := newTestAttendance(t)
	user := seedUser(t, db, 200, model.RoleEmployee)
	recordID := seedCompletedRecord(t, att, user.PublicID)
	svc, _ := newTestVerification(t, db)
	ctx := context.Background()

	data, err := svc.VerifyLeg(ctx, recordID, model.LegIn, model.VerifyStatusVerified)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if data.StatusIn != string(model.VerifyStatusVerified) {
		t.Fatalf("in leg should be Verified, got %s", data.StatusIn)
	}
	if data.StatusOut != string(model.VerifyStatusPending) {
		t.Fatalf("out leg must stay Pending, got %s", data.StatusOut)
	}
}

func TestVerifyRejectDoesNotRevokeSession(t *testing.T) {
	att, _, db := newTestAttendance(t)
	user := seedUser(t, db, 201, model.RoleEmployee)
	recordID := seedCompletedRecord(t, att, user.PublicID)
	svc, pub := newTestVerification(t, db)
	ctx := context.Background()

	data, err := svc.VerifyLeg(ctx, recordID, model.LegOut, model.VerifyStatusRejected)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if data.StatusOut != string(model.VerifyStatusRejected) {
		t.Fatalf("out leg should be Rejected, got %s", data.StatusOut)
	}
	// 驳回不撤销打卡：时间仍在，会话仍是 completed
	if data.TimeOut == "" {
		t.Fatal("rejection must not clear the clock-out time")
	}

	status, err := att.TodayStatus(ctx, user.PublicID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.Status != string(model.SessionCompleted) {
		t.Fatalf("session should remain completed after rejection, got %s", status.Status)
	}

	// 驳回触发短信通知任务
	if len(pub.rejections) != 1 {
		t.Fatalf("expected 1 rejection notification, got %d", len(pub.rejections))
	}
	msg := pub.rejections[0]
	if msg.UserID != user.PublicID || msg.Leg != "out" || msg.Phone != user.Phone {
		t.Fatalf("rejection message mismatch: %+v", msg)
	}

	evt := pub.lastEvent()
	if evt == nil || evt.Type != model.EventUpdate {
		t.Fatalf("verification should publish UPDATE, got %+v", evt)
	}
}

func TestVerifyApproveSendsNoNotification(t *testing.T) {
	att, _, db := newTestAttendance(t)
	user := seedUser(t, db, 202, model.RoleEmployee)
	recordID := seedCompletedRecord(t, att, user.PublicID)
	svc, pub := newTestVerification(t, db)

	if _, err := svc.VerifyLeg(context.Background(), recordID, model.LegIn, model.VerifyStatusVerified); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if len(pub.rejections) != 0 {
		t.Fatalf("approval must not notify, got %d messages", len(pub.rejections))
	}
}

func TestVerifyLegNoEvidence(t *testing.T) {
	att, _, db := newTestAttendance(t)
	user := seedUser(t, db, 203, model.RoleEmployee)
	ctx := context.Background()

	// 只有上班腿
	fixNow(att, at(8, 0))
	data, err := att.ClockIn(ctx, user.PublicID, clockReq())
	if err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}
	recordID := mustID(t, data.ID)

	svc, _ := newTestVerification(t, db)
	if _, err := svc.VerifyLeg(ctx, recordID, model.LegOut, model.VerifyStatusVerified); err != errors.NoEvidence {
		t.Fatalf("verifying a leg without evidence should be NoEvidence, got %v", err)
	}

	if _, err := svc.VerifyLeg(ctx, 999999, model.LegIn, model.VerifyStatusVerified); err != errors.NotFound {
		t.Fatalf("unknown record should be NotFound, got %v", err)
	}

	// Pending 不是合法的审核决定
	if _, err := svc.VerifyLeg(ctx, recordID, model.LegIn, model.VerifyStatusPending); err != errors.ValidationError {
		t.Fatalf("Pending decision should be ValidationError, got %v", err)
	}
}

func TestVerifyDayAppliesToPresentLegs(t *testing.T) {
	att, _, db := newTestAttendance(t)
	user := seedUser(t, db, 204, model.RoleEmployee)
	ctx := context.Background()

	// 只有上班腿时整天审核只作用于上班腿
	fixNow(att, at(8, 0))
	data, err := att.ClockIn(ctx, user.PublicID, clockReq())
	if err != nil {
		t.Fatalf("clock-in failed: %v", err)
	}

	svc, _ := newTestVerification(t, db)
	verified, err := svc.VerifyDay(ctx, mustID(t, data.ID), model.VerifyStatusVerified)
	if err != nil {
		t.Fatalf("verify day failed: %v", err)
	}
	if verified.StatusIn != string(model.VerifyStatusVerified) {
		t.Fatalf("in leg should be Verified, got %s", verified.StatusIn)
	}
	if verified.StatusOut != "" {
		t.Fatalf("missing out leg must stay untouched, got %s", verified.StatusOut)
	}
}

func TestVerifyDayNoEvidence(t *testing.T) {
	att, _, db := newTestAttendance(t)
	seedUser(t, db, 205, model.RoleEmployee)
	ctx := context.Background()

	data, err := att.ManualCreate(ctx, &dto.ManualEntryRequest{
		UserID: "205", Date: "2026-03-03", AttendanceStatus: string(model.AttendanceAbsent),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	svc, _ := newTestVerification(t, db)
	if _, err := svc.VerifyDay(ctx, mustID(t, data.ID), model.VerifyStatusVerified); err != errors.NoEvidence {
		t.Fatalf("Absent record has nothing to verify, got %v", err)
	}
}

func TestBulkVerifyBestEffort(t *testing.T) {
	att, _, db := newTestAttendance(t)
	user := seedUser(t, db, 206, model.RoleEmployee)
	recordID := seedCompletedRecord(t, att, user.PublicID)
	svc, _ := newTestVerification(t, db)
	ctx := context.Background()

	resp, err := svc.BulkVerify(ctx, &dto.BulkVerifyRequest{
		Status: string(model.VerifyStatusVerified),
		Items: []dto.BulkVerifyItem{
			{ID: strconv.FormatInt(recordID, 10), Type: "in"},
			{ID: "999999", Type: "out"},
			{ID: strconv.FormatInt(recordID, 10), Type: "day"},
			{ID: "bad-id", Type: "in"},
		},
	})
	if err != nil {
		t.Fatalf("bulk verify failed: %v", err)
	}

	if resp.Succeeded != 2 || resp.Failed != 2 {
		t.Fatalf("expected 2 succeeded / 2 failed, got %d / %d", resp.Succeeded, resp.Failed)
	}
	if len(resp.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(resp.Results))
	}

	if !resp.Results[0].Succeeded || resp.Results[0].ErrorCode != "" {
		t.Fatalf("first item should succeed: %+v", resp.Results[0])
	}
	if resp.Results[1].Succeeded || resp.Results[1].ErrorCode != errors.NotFound.Code {
		t.Fatalf("missing record should fail with NOT_FOUND: %+v", resp.Results[1])
	}
	if resp.Results[3].Succeeded || resp.Results[3].ErrorCode != errors.ValidationError.Code {
		t.Fatalf("bad id should fail with VALIDATION_ERROR: %+v", resp.Results[3])
	}

	// 部分失败不影响成功项落库
	record, err := att.records.GetByPublicID(ctx, recordID)
	if err != nil || record == nil {
		t.Fatalf("record lookup failed: %v", err)
	}
	if record.StatusIn == nil || *record.StatusIn != model.VerifyStatusVerified {
		t.Fatalf("in leg should be Verified after bulk run")
	}

	if _, err := svc.BulkVerify(ctx, &dto.BulkVerifyRequest{Status: "Nope", Items: []dto.BulkVerifyItem{{ID: "1", Type: "in"}}}); err != errors.ValidationError {
		t.Fatalf("bad status should be ValidationError, got %v", err)
	}
}

func TestBulkVerifySkipsDecidedLegs(t *testing.T) {
	att, _, db := newTestAttendance(t)
	user := seedUser(t, db, 207, model.RoleEmployee)
	recordID := seedCompletedRecord(t, att, user.PublicID)
	svc, _ := newTestVerification(t, db)
	ctx := context.Background()
	id := strconv.FormatInt(recordID, 10)

	if _, err := svc.VerifyLeg(ctx, recordID, model.LegIn, model.VerifyStatusVerified); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	// 批量不改写已有决定：in 项失败，day 项只作用于仍 Pending 的 out 腿
	resp, err := svc.BulkVerify(ctx, &dto.BulkVerifyRequest{
		Status: string(model.VerifyStatusRejected),
		Items: []dto.BulkVerifyItem{
			{ID: id, Type: "in"},
			{ID: id, Type: "day"},
		},
	})
	if err != nil {
		t.Fatalf("bulk verify failed: %v", err)
	}
	if resp.Succeeded != 1 || resp.Failed != 1 {
		t.Fatalf("expected 1 succeeded / 1 failed, got %d / %d", resp.Succeeded, resp.Failed)
	}
	if resp.Results[0].Succeeded || resp.Results[0].ErrorCode != errors.AlreadyDecided.Code {
		t.Fatalf("decided leg should fail with ALREADY_DECIDED: %+v", resp.Results[0])
	}

	record, err := att.records.GetByPublicID(ctx, recordID)
	if err != nil || record == nil {
		t.Fatalf("record lookup failed: %v", err)
	}
	if record.StatusIn == nil || *record.StatusIn != model.VerifyStatusVerified {
		t.Fatal("bulk run must not overwrite the verified in leg")
	}
	if record.StatusOut == nil || *record.StatusOut != model.VerifyStatusRejected {
		t.Fatal("pending out leg should take the bulk decision")
	}

	// 两腿都有决定后整天批量整项失败
	resp, err = svc.BulkVerify(ctx, &dto.BulkVerifyRequest{
		Status: string(model.VerifyStatusVerified),
		Items:  []dto.BulkVerifyItem{{ID: id, Type: "day"}},
	})
	if err != nil {
		t.Fatalf("bulk verify failed: %v", err)
	}
	if resp.Failed != 1 || resp.Results[0].ErrorCode != errors.AlreadyDecided.Code {
		t.Fatalf("fully decided day should fail with ALREADY_DECIDED: %+v", resp.Results[0])
	}

	// 单条审核仍允许改判
	data, err := svc.VerifyLeg(ctx, recordID, model.LegIn, model.VerifyStatusRejected)
	if err != nil {
		t.Fatalf("re-verify failed: %v", err)
	}
	if data.StatusIn != string(model.VerifyStatusRejected) {
		t.Fatalf("single verify should re-decide the leg, got %s", data.StatusIn)
	}
}
