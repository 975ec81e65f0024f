// file: internals/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

/* =========================================================
   Tipe dasar Conditional Store
========================================================= */

// Item adalah representasi mentah satu row di DynamoDB.
type Item = map[string]types.AttributeValue

// Key mengidentifikasi satu item: partition key + sort key (opsional).
type Key struct {
	Partition any
	Sort      any // nil jika tabel tanpa sort key
}

// TableSpec adalah konfigurasi eksplisit per tabel (bukan inferensi generik).
// Divalidasi sekali saat startup lewat Validate().
type TableSpec struct {
	Name         string
	PartitionKey string
	SortKey      string // "" jika tidak ada
}

func (s TableSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("table spec: nama tabel kosong")
	}
	if s.PartitionKey == "" {
		return fmt.Errorf("table spec %s: partition key kosong", s.Name)
	}
	if s.SortKey == s.PartitionKey {
		return fmt.Errorf("table spec %s: sort key tidak boleh sama dengan partition key", s.Name)
	}
	return nil
}

/* =========================================================
   Error sentinel (dipetakan ke HTTP code di layer service)
========================================================= */

var (
	// ErrNotFound: key tidak ditemukan saat Get.
	ErrNotFound = errors.New("item tidak ditemukan")
	// ErrConflict: precondition gagal (CAS) atau duplicate key saat Insert.
	ErrConflict = errors.New("conditional check gagal")
	// ErrValidation: payload dari caller tidak memenuhi kontrak store
	// (mis. bentuk "previous" salah).
	ErrValidation = errors.New("payload tidak valid")
	// ErrInternal: pelanggaran invariant internal (schema mismatch, scan
	// melebihi batas halaman, exception tak terduga dari store).
	ErrInternal = errors.New("internal store error")
)

/* =========================================================
   Conn: kontrak persistence level bawah
========================================================= */

// Conn adalah kontrak persistence untuk Conditional Store. Implementasi
// produksi: DynamoConn. Implementasi in-process untuk test/lokal: MemConn.
// Semua operasi tulis bersifat conditional; pelanggaran kondisi = ErrConflict.
type Conn interface {
	Get(ctx context.Context, spec TableSpec, key Key) (Item, error)
	// Query mengambil seluruh item dalam satu partition, urutan sort key
	// descending (terbaru dulu untuk id yang monoton).
	Query(ctx context.Context, spec TableSpec, partition any) ([]Item, error)
	// Scan mengambil seluruh isi tabel, paginasi internal, dibatasi
	// maxScanPages halaman (lebih dari itu = ErrInternal).
	Scan(ctx context.Context, spec TableSpec) ([]Item, error)
	// Put menolak item yang key-nya sudah ada (duplicate = ErrConflict),
	// plus kondisi tambahan opsional.
	Put(ctx context.Context, spec TableSpec, item Item, extra *Cond) error
	// Update men-set field yang diberikan secara atomik dan mengembalikan
	// item baru. Kondisi tambahan gagal = ErrConflict.
	Update(ctx context.Context, spec TableSpec, key Key, sets map[string]any, extra *Cond) (Item, error)
	// Transact menjalankan seluruh operasi atau tidak sama sekali.
	Transact(ctx context.Context, ops []TxOp) error
}

// batas paginasi Scan; melebihi ini dianggap pemakaian di luar desain
// (mencegah biaya tak terbatas).
const maxScanPages = 25

// AuditSink menerima catatan mutasi sukses. Implementasinya best-effort:
// kegagalan dicatat di log, tidak pernah menggagalkan operasi utama.
type AuditSink interface {
	Record(ctx context.Context, action string, table string, objectID string, detail map[string]any)
}

// Aksi audit yang dikenal (mirror enum di audit_logs).
const (
	ActionCreate   = "create"
	ActionEdit     = "edit"
	ActionPlus     = "plus"
	ActionLogin    = "login"
	ActionSecurity = "security"
	ActionRun      = "run"
)
