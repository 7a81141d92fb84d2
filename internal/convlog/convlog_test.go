package convlog

import (
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zulandar/switchboard/internal/models"
)

// openConvTestDB opens an in-memory SQLite database with both thread
// schemas migrated.
func openConvTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.ChatThread{}, &models.BotThread{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func seedChat(t *testing.T, db *gorm.DB, thread models.ChatThread) models.ChatThread {
	t.Helper()
	if err := db.Create(&thread).Error; err != nil {
		t.Fatalf("seed chat thread: %v", err)
	}
	return thread
}

func seedBot(t *testing.T, db *gorm.DB, thread models.BotThread) models.BotThread {
	t.Helper()
	if err := db.Create(&thread).Error; err != nil {
		t.Fatalf("seed bot thread: %v", err)
	}
	return thread
}

func TestListChat_NewestFirst(t *testing.T) {
	db := openConvTestDB(t)
	seedChat(t, db, models.ChatThread{DeviceID: "device-a", ProspectNum: "111"})
	seedChat(t, db, models.ChatThread{DeviceID: "device-a", ProspectNum: "222"})
	seedChat(t, db, models.ChatThread{DeviceID: "device-a", ProspectNum: "333"})

	threads, err := ListChat(db, ListFilters{})
	if err != nil {
		t.Fatalf("ListChat: %v", err)
	}
	if len(threads) != 3 {
		t.Fatalf("len(threads) = %d, want 3", len(threads))
	}
	if threads[0].ProspectNum != "333" {
		t.Errorf("threads[0].ProspectNum = %q, want %q (newest first)", threads[0].ProspectNum, "333")
	}
}

func TestListChat_DeviceFilter(t *testing.T) {
	db := openConvTestDB(t)
	seedChat(t, db, models.ChatThread{DeviceID: "device-a", ProspectNum: "111"})
	seedChat(t, db, models.ChatThread{DeviceID: "device-b", ProspectNum: "222"})

	threads, err := ListChat(db, ListFilters{DeviceID: "device-b"})
	if err != nil {
		t.Fatalf("ListChat: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("len(threads) = %d, want 1", len(threads))
	}
	if threads[0].DeviceID != "device-b" {
		t.Errorf("DeviceID = %q, want %q", threads[0].DeviceID, "device-b")
	}
}

func TestListChat_Limit(t *testing.T) {
	db := openConvTestDB(t)
	for i := 0; i < 5; i++ {
		seedChat(t, db, models.ChatThread{DeviceID: "device-a"})
	}

	threads, err := ListChat(db, ListFilters{Limit: 2})
	if err != nil {
		t.Fatalf("ListChat: %v", err)
	}
	if len(threads) != 2 {
		t.Errorf("len(threads) = %d, want 2", len(threads))
	}
}

func TestListChat_Empty(t *testing.T) {
	db := openConvTestDB(t)

	threads, err := ListChat(db, ListFilters{})
	if err != nil {
		t.Fatalf("ListChat: %v", err)
	}
	if len(threads) != 0 {
		t.Errorf("len(threads) = %d, want 0", len(threads))
	}
}

func TestListBot_NewestFirst(t *testing.T) {
	db := openConvTestDB(t)
	seedBot(t, db, models.BotThread{DeviceID: "device-a", ProspectNum: "111"})
	seedBot(t, db, models.BotThread{DeviceID: "device-a", ProspectNum: "222"})

	threads, err := ListBot(db, ListFilters{})
	if err != nil {
		t.Fatalf("ListBot: %v", err)
	}
	if len(threads) != 2 {
		t.Fatalf("len(threads) = %d, want 2", len(threads))
	}
	if threads[0].ProspectNum != "222" {
		t.Errorf("threads[0].ProspectNum = %q, want %q (newest first)", threads[0].ProspectNum, "222")
	}
}

func TestListBot_DeviceFilter(t *testing.T) {
	db := openConvTestDB(t)
	seedBot(t, db, models.BotThread{DeviceID: "device-a"})
	seedBot(t, db, models.BotThread{DeviceID: "device-b"})

	threads, err := ListBot(db, ListFilters{DeviceID: "device-a"})
	if err != nil {
		t.Fatalf("ListBot: %v", err)
	}
	if len(threads) != 1 {
		t.Errorf("len(threads) = %d, want 1", len(threads))
	}
}

func TestFindBotThread(t *testing.T) {
	db := openConvTestDB(t)
	seedBot(t, db, models.BotThread{
		DeviceID:     "device-a",
		ProspectNum:  "60123456789",
		ProspectName: "Aisyah",
		Pakej:        "premium",
	})

	thread, err := FindBotThread(db, "device-a", "60123456789")
	if err != nil {
		t.Fatalf("FindBotThread: %v", err)
	}
	if thread.ProspectName != "Aisyah" {
		t.Errorf("ProspectName = %q, want %q", thread.ProspectName, "Aisyah")
	}

	record := thread.ProspectRecord()
	if record["pakej"] != "premium" {
		t.Errorf("record[pakej] = %q, want %q", record["pakej"], "premium")
	}
}

func TestFindBotThread_NewestWins(t *testing.T) {
	db := openConvTestDB(t)
	seedBot(t, db, models.BotThread{DeviceID: "device-a", ProspectNum: "111", Stage: "greeting"})
	seedBot(t, db, models.BotThread{DeviceID: "device-a", ProspectNum: "111", Stage: "closing"})

	thread, err := FindBotThread(db, "device-a", "111")
	if err != nil {
		t.Fatalf("FindBotThread: %v", err)
	}
	if thread.Stage != "closing" {
		t.Errorf("Stage = %q, want %q (newest thread)", thread.Stage, "closing")
	}
}

func TestFindBotThread_NotFound(t *testing.T) {
	db := openConvTestDB(t)

	_, err := FindBotThread(db, "device-a", "999")
	if err == nil {
		t.Fatal("expected error for unknown prospect")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("error = %v, want to wrap gorm.ErrRecordNotFound", err)
	}
}

func TestCounts(t *testing.T) {
	db := openConvTestDB(t)
	seedChat(t, db, models.ChatThread{DeviceID: "device-a"})
	seedChat(t, db, models.ChatThread{DeviceID: "device-a", Human: true})
	seedBot(t, db, models.BotThread{DeviceID: "device-a"})

	counts, err := Counts(db)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Chat != 2 {
		t.Errorf("Chat = %d, want 2", counts.Chat)
	}
	if counts.Bot != 1 {
		t.Errorf("Bot = %d, want 1", counts.Bot)
	}
	if counts.HumanTakeover != 1 {
		t.Errorf("HumanTakeover = %d, want 1", counts.HumanTakeover)
	}
}

func TestCounts_EmptyDB(t *testing.T) {
	db := openConvTestDB(t)

	counts, err := Counts(db)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Chat != 0 || counts.Bot != 0 || counts.HumanTakeover != 0 {
		t.Errorf("Counts = %+v, want all zero", counts)
	}
}

func TestNewProspectsSince(t *testing.T) {
	db := openConvTestDB(t)
	old := seedBot(t, db, models.BotThread{DeviceID: "device-a", ProspectNum: "111"})
	// Backdate the first thread by two days.
	twoDaysAgo := time.Now().Add(-48 * time.Hour)
	if err := db.Model(&models.BotThread{}).Where("id = ?", old.ID).
		Update("created_at", twoDaysAgo).Error; err != nil {
		t.Fatalf("backdate thread: %v", err)
	}
	seedBot(t, db, models.BotThread{DeviceID: "device-a", ProspectNum: "222"})

	count, err := NewProspectsSince(db, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("NewProspectsSince: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestStoreErrors(t *testing.T) {
	db := openConvTestDB(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.Close()

	if _, err := ListChat(db, ListFilters{}); err == nil {
		t.Error("ListChat with closed db should fail")
	}
	if _, err := ListBot(db, ListFilters{}); err == nil {
		t.Error("ListBot with closed db should fail")
	}
	if _, err := FindBotThread(db, "a", "1"); err == nil {
		t.Error("FindBotThread with closed db should fail")
	}
	if _, err := Counts(db); err == nil {
		t.Error("Counts with closed db should fail")
	}
	if _, err := NewProspectsSince(db, time.Now()); err == nil {
		t.Error("NewProspectsSince with closed db should fail")
	}
}
