package submission

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a submission. Any status may move to any
// other status (an admin may correct a mistake), but never to itself.
type Status string

const (
	StatusPengajuanBaru Status = "PENGAJUAN_BARU"
	StatusDiproses      Status = "DIPROSES"
	StatusSelesai       Status = "SELESAI"
	StatusDitolak       Status = "DITOLAK"
)

// statusLabels maps each status to its public, human-readable Indonesian label.
var statusLabels = map[Status]string{
	StatusPengajuanBaru: "Pengajuan Baru",
	StatusDiproses:      "Sedang Diproses",
	StatusSelesai:       "Selesai",
	StatusDitolak:       "Ditolak",
}

// Label returns the display text for a status. Unmapped values pass through
// unchanged so a future status never renders as an empty string.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsValid reports whether s is one of the four known statuses.
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ServiceType identifies which public service a submission requests.
type ServiceType string

const (
	ServiceKTP             ServiceType = "KTP"
	ServiceKK              ServiceType = "KK"
	ServiceAkta            ServiceType = "AKTA"
	ServiceSKCK            ServiceType = "SKCK"
	ServiceSuratPindah     ServiceType = "SURAT_PINDAH"
	ServiceSuratKeterangan ServiceType = "SURAT_KETERANGAN"
)

var serviceLabels = map[ServiceType]string{
	ServiceKTP:             "Pembuatan KTP",
	ServiceKK:              "Pembuatan Kartu Keluarga",
	ServiceAkta:            "Pembuatan Akta Kelahiran",
	ServiceSKCK:            "Pembuatan SKCK",
	ServiceSuratPindah:     "Surat Pindah",
	ServiceSuratKeterangan: "Surat Keterangan",
}

func (t ServiceType) Label() string {
	if label, ok := serviceLabels[t]; ok {
		return label
	}
	return string(t)
}

func (t ServiceType) IsValid() bool {
	_, ok := serviceLabels[t]
	return ok
}

// Submission is a citizen's service request.
// Corresponds to the 'submissions' table.
type Submission struct {
	ID           uuid.UUID
	TrackingCode string // Unique, immutable, shared with the requester.
	Nama         string
	NIK          string // Exactly 16 digits. Never returned in full to public callers.
	Email        sql.NullString
	NoWA         string // Stored in normalized +62 form.
	JenisLayanan ServiceType
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
