package model

// Sample is a canned SMS the user can load instead of typing.
type Sample struct {
	Text string
	Kind Label
}

// Samples returns the built-in example messages, one per label.
func Samples() []Sample {
	return []Sample{
		{
			Kind: LabelFraud,
			Text: "Selamat! Anda memenangkan hadiah 100jt. Hubungi 08123456789 untuk klaim.",
		},
		{
			Kind: LabelNormal,
			Text: "Selamat Pagi, jadwal kuliah Machine Learning besok jam 10 di ruang JTE-09 ya. Jangan lupa membawa laptop.",
		},
		{
			Kind: LabelPromo,
			Text: "PROMO! Beli paket data 10GB hanya 50rb. Aktifkan di *123# sekarang!",
		},
	}
}
