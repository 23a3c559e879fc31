package session

// User-facing messages.
const (
	MsgSuggestNotFound = "Məkan tapılmadı. Zəhmət olmasa daha dəqiq yazın (məs: “Gədəbəy, Azərbaycan”)."
	MsgSuggestFailed   = "Axtarış zamanı xəta baş verdi. İnterneti yoxlayın və yenidən cəhd edin."
	MsgSelectNotFound  = "Şəhər tapılmadı. Daha dəqiq yazın (məs: “Gədəbəy, Azərbaycan”)."
	MsgSelectFailed    = "Şəhər seçimi zamanı xəta baş verdi."
	MsgTimezoneMissing = "Vaxt qurşağı tapılmadı. Yenidən cəhd edin."
	MsgImageFailed     = "Şəkil yüklənmədi. İnternet bağlantısını yoxlayın."
	MsgNoFavorites     = "Hələ sevdikləriniz yoxdur"
)
