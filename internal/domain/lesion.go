package domain

// LesionClass is one diagnostic category of the ground truth table
type LesionClass struct {
	Code string
	Name string
}

// LesionClasses lists the eight ISIC 2019 training categories in column order
var LesionClasses = []LesionClass{
	{Code: "MEL", Name: "Melanoma"},
	{Code: "NV", Name: "Nevus"},
	{Code: "BCC", Name: "Basal cell carcinoma"},
	{Code: "AK", Name: "Actinic keratosis"},
	{Code: "BKL", Name: "Benign keratosis"},
	{Code: "DF", Name: "Dermatofibroma"},
	{Code: "VASC", Name: "Vascular lesion"},
	{Code: "SCC", Name: "Squamous cell carcinoma"},
}
