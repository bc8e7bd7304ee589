package service

import (
	"testing"
	"time"

	"foodportal/internal/model"
)

func TestTicketDefaultsToMediumPriority(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewTicketService(repos.tickets, repos.users, repos.tx)

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)

	ticket, err := svc.Create(testCtx, customer.ID.String(), CreateTicketRequest{
		Subject:     "Cold food",
		Description: "The order arrived cold.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Priority != model.TicketPriorityMedium {
		t.Errorf("priority = %q, want medium", ticket.Priority)
	}
	if ticket.Status != model.TicketStatusOpen {
		t.Errorf("status = %q, want open", ticket.Status)
	}
	if ticket.AssignedTo != "Unassigned" {
		t.Errorf("assigned_to = %q, want Unassigned", ticket.AssignedTo)
	}
}

func TestTicketResolvedStampsResolvedAt(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewTicketService(repos.tickets, repos.users, repos.tx)

	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	ticket, err := svc.Create(testCtx, customer.ID.String(), CreateTicketRequest{
		Subject:     "Refund",
		Description: "Please refund my last order.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	resolved, err := svc.UpdateStatus(testCtx, ticket.ID, UpdateTicketStatusRequest{Status: model.TicketStatusResolved})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if resolved.ResolvedAt == "" {
		t.Fatal("ResolvedAt not stamped on resolve")
	}

	var stored model.SupportTicket
	if err := db.First(&stored, "id = ?", ticket.ID).Error; err != nil {
		t.Fatalf("reload ticket: %v", err)
	}
	firstStamp := *stored.ResolvedAt

	// Reopening and resolving again keeps the original stamp.
	if _, err := svc.UpdateStatus(testCtx, ticket.ID, UpdateTicketStatusRequest{Status: model.TicketStatusOpen}); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := svc.UpdateStatus(testCtx, ticket.ID, UpdateTicketStatusRequest{Status: model.TicketStatusResolved}); err != nil {
		t.Fatalf("re-resolve: %v", err)
	}
	if err := db.First(&stored, "id = ?", ticket.ID).Error; err != nil {
		t.Fatalf("reload ticket: %v", err)
	}
	if !stored.ResolvedAt.Equal(firstStamp) {
		t.Error("ResolvedAt changed on second resolve")
	}

	// Unknown statuses are rejected.
	if _, err := svc.UpdateStatus(testCtx, ticket.ID, UpdateTicketStatusRequest{Status: "done"}); err == nil {
		t.Fatal("expected unknown ticket status to fail")
	}
}

func TestTicketAssignMovesOpenToInProgress(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewTicketService(repos.tickets, repos.users, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)
	customer := createUser(t, db, "customer1", model.RoleCustomer, true)
	ticket, err := svc.Create(testCtx, customer.ID.String(), CreateTicketRequest{
		Subject:     "Late delivery",
		Description: "Order was an hour late.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	assigned, err := svc.Assign(testCtx, ticket.ID, AssignTicketRequest{AdminID: admin.ID.String()})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if assigned.Status != model.TicketStatusInProgress {
		t.Errorf("status = %q, want in_progress", assigned.Status)
	}
	if assigned.AssignedTo != "admin" {
		t.Errorf("assigned_to = %q, want admin", assigned.AssignedTo)
	}

	// Only admin accounts can be assignees.
	if _, err := svc.Assign(testCtx, ticket.ID, AssignTicketRequest{AdminID: customer.ID.String()}); err == nil {
		t.Fatal("expected assigning a non-admin to fail")
	}
}

func TestTicketReplyPermissions(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewTicketService(repos.tickets, repos.users, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)
	owner := createUser(t, db, "customer1", model.RoleCustomer, true)
	stranger := createUser(t, db, "customer2", model.RoleCustomer, true)

	ticket, err := svc.Create(testCtx, owner.ID.String(), CreateTicketRequest{
		Subject:     "Wrong item",
		Description: "Got lagman instead of plov.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Reply(testCtx, ticket.ID, stranger.ID.String(), TicketReplyRequest{Message: "me too"}); err == nil {
		t.Fatal("expected reply by an unrelated user to fail")
	}
	if _, err := svc.Reply(testCtx, ticket.ID, owner.ID.String(), TicketReplyRequest{Message: "any update?"}); err != nil {
		t.Fatalf("owner reply: %v", err)
	}
	if _, err := svc.Reply(testCtx, ticket.ID, admin.ID.String(), TicketReplyRequest{Message: "looking into it"}); err != nil {
		t.Fatalf("admin reply: %v", err)
	}

	detail, err := svc.GetDetail(testCtx, ticket.ID)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if len(detail.Replies) != 2 {
		t.Errorf("replies = %d, want 2", len(detail.Replies))
	}
}

func TestTicketStats(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewTicketService(repos.tickets, repos.users, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)
	customer := createUser(t, db, "customer1", model.RoleCustomer, true)

	for _, subject := range []string{"a", "b", "c"} {
		if _, err := svc.Create(testCtx, customer.ID.String(), CreateTicketRequest{Subject: subject, Description: "d"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	tickets, _, _, err := svc.List(testCtx, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, err := svc.Assign(testCtx, tickets[0].ID, AssignTicketRequest{AdminID: admin.ID.String()}); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := svc.UpdateStatus(testCtx, tickets[1].ID, UpdateTicketStatusRequest{Status: model.TicketStatusResolved}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	_, total, stats, err := svc.List(testCtx, 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if stats.Open != 1 || stats.InProgress != 1 || stats.Resolved != 1 {
		t.Errorf("stats = %+v, want one of each", stats)
	}
}

func TestDeleteTicketRemovesReplies(t *testing.T) {
	db := newTestDB(t)
	repos := newTestRepos(db)
	svc := NewTicketService(repos.tickets, repos.users, repos.tx)

	admin := createUser(t, db, "admin", model.RoleAdmin, true)
	customer := createUser(t, db, "customer1", model.RoleCustomer, true)

	ticket, err := svc.Create(testCtx, customer.ID.String(), CreateTicketRequest{Subject: "late order", Description: "d"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	keep, err := svc.Create(testCtx, customer.ID.String(), CreateTicketRequest{Subject: "other", Description: "d"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, actor := range []string{customer.ID.String(), admin.ID.String()} {
		if _, err := svc.Reply(testCtx, ticket.ID, actor, TicketReplyRequest{Message: "hi"}); err != nil {
			t.Fatalf("Reply: %v", err)
		}
	}

	if err := svc.Delete(testCtx, ticket.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := countRows(t, db, &model.SupportTicket{}, ""); n != 1 {
		t.Errorf("tickets left = %d, want 1", n)
	}
	if n := countRows(t, db, &model.TicketReply{}, "ticket_id = ?", ticket.ID); n != 0 {
		t.Errorf("replies left = %d, want 0", n)
	}
	if _, err := svc.GetDetail(testCtx, keep.ID); err != nil {
		t.Errorf("surviving ticket unreadable: %v", err)
	}
	if err := svc.Delete(testCtx, ticket.ID); err == nil {
		t.Error("expected deleting a deleted ticket to fail")
	}
}
