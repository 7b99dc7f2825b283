package token

import (
	"testing"
	"time"

	"github.com/moonbit0x/Aegis-API/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 创建内存测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Token{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// newTestToken 构造测试令牌记录
func newTestToken(identifier string) *models.Token {
	return &models.Token{
		Identifier: identifier,
		Hash:       "$2a$10$abcdefghijklmnopqrstuv",
		Name:       "test token",
		ValidUntil: time.Now().AddDate(1, 0, 0),
	}
}

// TestRepository_Create 测试创建令牌
func TestRepository_Create(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	record := newTestToken("aabbccddeeff0")
	if err := repo.Create(record); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if record.ID == 0 {
		t.Error("Create() did not set record ID")
	}
}

// TestRepository_Create_DuplicateIdentifier 测试标识符唯一约束
func TestRepository_Create_DuplicateIdentifier(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if err := repo.Create(newTestToken("aabbccddeeff0")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := repo.Create(newTestToken("aabbccddeeff0")); err != ErrIdentifierExists {
		t.Errorf("Create() with duplicate identifier should return ErrIdentifierExists, got %v", err)
	}
}

// TestRepository_FindByIdentifier 测试按标识符查找
func TestRepository_FindByIdentifier(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	record := newTestToken("aabbccddeeff0")
	if err := repo.Create(record); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	found, err := repo.FindByIdentifier("aabbccddeeff0")
	if err != nil {
		t.Fatalf("FindByIdentifier() failed: %v", err)
	}
	if found.ID != record.ID {
		t.Errorf("FindByIdentifier() got ID %d, want %d", found.ID, record.ID)
	}
}

// TestRepository_FindByIdentifier_NotFound 测试未知标识符
func TestRepository_FindByIdentifier_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if _, err := repo.FindByIdentifier("0000000000000"); err != ErrTokenNotFound {
		t.Errorf("FindByIdentifier() with unknown identifier should return ErrTokenNotFound, got %v", err)
	}
}

// TestRepository_FindByIdentifier_Hidden 测试已禁用记录对查找不可见
func TestRepository_FindByIdentifier_Hidden(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	record := newTestToken("aabbccddeeff0")
	if err := repo.Create(record); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := repo.Hide(record.ID); err != nil {
		t.Fatalf("Hide() failed: %v", err)
	}

	if _, err := repo.FindByIdentifier("aabbccddeeff0"); err != ErrTokenNotFound {
		t.Errorf("FindByIdentifier() for hidden token should return ErrTokenNotFound, got %v", err)
	}
}

// TestRepository_FindAll 测试列表查询
func TestRepository_FindAll(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if err := repo.Create(newTestToken("aabbccddeeff0")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := repo.Create(newTestToken("aabbccddeeff1")); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	tokens, err := repo.FindAll()
	if err != nil {
		t.Fatalf("FindAll() failed: %v", err)
	}
	if len(tokens) != 2 {
		t.Errorf("FindAll() returned %d tokens, want 2", len(tokens))
	}
}

// TestRepository_Hide_NotFound 测试禁用不存在的记录
func TestRepository_Hide_NotFound(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if err := repo.Hide(42); err != ErrTokenNotFound {
		t.Errorf("Hide() for missing token should return ErrTokenNotFound, got %v", err)
	}
}

// TestRepository_Delete 测试删除令牌
func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	record := newTestToken("aabbccddeeff0")
	if err := repo.Create(record); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if err := repo.Delete(record.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := repo.Delete(record.ID); err != ErrTokenNotFound {
		t.Errorf("Delete() for removed token should return ErrTokenNotFound, got %v", err)
	}
}

// TestRepository_CheckIdentifierExists 测试存在性检查包含已禁用记录
func TestRepository_CheckIdentifierExists(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	record := newTestToken("aabbccddeeff0")
	if err := repo.Create(record); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := repo.Hide(record.ID); err != nil {
		t.Fatalf("Hide() failed: %v", err)
	}

	exists, err := repo.CheckIdentifierExists("aabbccddeeff0")
	if err != nil {
		t.Fatalf("CheckIdentifierExists() failed: %v", err)
	}
	if !exists {
		t.Error("CheckIdentifierExists() should count hidden records")
	}
}
