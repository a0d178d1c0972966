package catalog

import (
	"context"

	"github.com/MUHULILAMRI/Done-Fast/models"
)

func price(v int64) *int64 { return &v }

// StaticServices is the built-in catalog, used for seeding and whenever the
// database cannot be read.
func StaticServices() []models.Service {
	return []models.Service{
		{
			ID:           "joki-penulisan",
			Title:        "Joki Penulisan",
			Description:  "Layanan penulisan akademik profesional untuk berbagai kebutuhan",
			Price:        price(250000),
			Icon:         "FileText",
			Category:     "Academic",
			Features:     []string{"Essay & Artikel", "Makalah & Paper", "Review Jurnal", "Proposal Penelitian", "Laporan Praktikum"},
			DeliveryTime: "3-7 hari",
			Revisions:    "3x revisi gratis",
			SubOptions: []models.SubOption{
				{ID: "penulisan-standar", Name: "Paket Standar", Price: 250000, Features: []string{"Essay & Artikel", "Makalah & Paper", "Review Jurnal", "Proposal Penelitian", "Laporan Praktikum"}},
			},
		},
		{
			ID:           "joki-skripsi",
			Title:        "Joki Skripsi",
			Description:  "Bantuan penyelesaian skripsi S1 dengan kualitas terbaik",
			Price:        price(300000),
			Icon:         "BookOpen",
			Category:     "Academic",
			Popular:      true,
			Features:     []string{"Skripsi S1", "Proposal & Bab 1-5", "Analisis Data SPSS/R"},
			DeliveryTime: "2-4 minggu",
			Revisions:    "Revisi 4 kali",
			SubOptions: []models.SubOption{
				{ID: "skripsi-bab1-3", Name: "Bab 1 - 3 Saja", Price: 900000, Features: []string{"Bab 1", "Bab 2", "Bab 3"}},
				{ID: "skripsi-bab4-5", Name: "Bab 4 - 5 + Free PPT", Price: 1800000, Features: []string{"Bab 4", "Bab 5", "Free Pembuatan PPT"}},
				{ID: "skripsi-full", Name: "Full Bab", Price: 2900000, Features: []string{"Bab 1-5 Lengkap", "Bimbingan Penuh", "Gratis Presentasi PPT"}},
			},
		},
		{
			ID:           "joki-program",
			Title:        "Joki Pembuatan Program",
			Description:  "Pengembangan aplikasi dan sistem sesuai kebutuhan Anda",
			Price:        price(1500000),
			Icon:         "Code",
			Category:     "Programming",
			Features:     []string{"Website & Web App", "Mobile App", "Desktop Application", "Database Design", "API Development"},
			DeliveryTime: "1-3 minggu",
			Revisions:    "Support & konsultasi",
			SubOptions: []models.SubOption{
				{ID: "program-standar", Name: "Paket Standar", Price: 1500000, Features: []string{"Website & Web App", "Mobile App", "Desktop Application", "Database Design", "API Development"}},
			},
		},
		{
			ID:           "joki-jurnal",
			Title:        "Joki Jurnal Ilmiah",
			Description:  "Penulisan dan publikasi jurnal ilmiah berkualitas tinggi",
			Price:        price(200000),
			Icon:         "Microscope",
			Category:     "Academic",
			Features:     []string{"Jurnal Nasional / Internasional", "Review & Editing Profesional", "Bantuan & Strategi Publikasi", "Manajemen Sitasi"},
			DeliveryTime: "2-6 minggu",
			Revisions:    "5x revisi gratis",
			SubOptions: []models.SubOption{
				{ID: "jurnal-penulisan", Name: "Joki Penulisan Saja", Price: 200000, Features: []string{"Penulisan draf jurnal", "Struktur sesuai standar", "Referensi dasar"}},
				{ID: "jurnal-lengkap", Name: "Paket Lengkap (Penulisan & Bantuan Publikasi)", Price: 1200000, Features: []string{"Semua fitur penulisan", "Analisis & editing mendalam", "Bantuan submisi ke jurnal target"}},
			},
		},
		{
			ID:           "joki-3d",
			Title:        "Joki 3D Modeling",
			Description:  "Pembuatan model 3D profesional untuk berbagai keperluan",
			Price:        price(1800000),
			Icon:         "Cube",
			Category:     "Design",
			Features:     []string{"Architectural 3D", "Product Modeling", "Character Design", "Animation", "Rendering"},
			DeliveryTime: "5-10 hari",
			Revisions:    "3x revisi gratis",
			SubOptions: []models.SubOption{
				{ID: "3d-standar", Name: "Paket Standar", Price: 1800000, Features: []string{"Architectural 3D", "Product Modeling", "Character Design", "Animation", "Rendering"}},
			},
		},
		{
			ID:           "konsultasi",
			Title:        "Konsultasi Akademik",
			Description:  "Bimbingan dan konsultasi untuk berbagai kebutuhan akademik",
			Price:        price(150000),
			Icon:         "Users",
			Category:     "Consultation",
			Features:     []string{"Konsultasi 1-on-1", "Review Dokumen", "Guidance & Tips", "Q&A Session", "Follow-up Support"},
			DeliveryTime: "1-2 hari",
			Revisions:    "Unlimited chat",
			SubOptions: []models.SubOption{
				{ID: "konsultasi-standar", Name: "Sesi Konsultasi", Price: 150000, Features: []string{"Konsultasi 1-on-1", "Review Dokumen", "Guidance & Tips", "Q&A Session", "Follow-up Support"}},
			},
		},
	}
}

// Static serves the built-in catalog.
type Static struct{}

func (Static) List(context.Context) ([]models.Service, error) {
	return StaticServices(), nil
}

func (s Static) Get(ctx context.Context, slug string) (models.Service, error) {
	list, _ := s.List(ctx)
	return find(list, slug)
}
