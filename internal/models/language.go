package models

// Language constants
const (
	LangPersian = "fa"
	LangEnglish = "en"
)

// Translation is a map of message keys to translated text
type Translation map[string]string

// Translations stores all language translations
var Translations = map[string]Translation{
	LangPersian: {
		"unknown_user": "کاربر ناشناس",
		"default_user": "کاربر",
		"self_user":    "شما",
		"unknown_date": "نامشخص",

		"welcome_message":  "سلام %s عزیز! به گروه **%s** خوش آمدید.\nتاریخ و زمان ورود: %s",
		"farewell_message": "کاربر %s گروه را ترک کرد.",

		"stats_report": "📊 آمار %s:\n" +
			"📋 مقام: %s\n" +
			"👑 لقب: %s\n" +
			"💬 تعداد پیام‌ها: %d\n" +
			"⚠️ اخطارها: %d\n" +
			"📝 اصل: %s\n" +
			"🕰️ تاریخ ورود: %s",
		"role_admin":              "ادمین",
		"role_member":             "کاربر",
		"title_none":              "ندارد",
		"original_registered":     "ثبت شده",
		"original_not_registered": "ثبت نشده",

		"original_saved":       "✅ اصل شما با موفقیت ثبت شد: '%s'",
		"original_usage":       "لطفاً بعد از 'اصل' متن اصلی خود را وارد کنید.",
		"original_echo":        "اصل ثبت شده شما: '%s'",
		"original_echo_target": "اصل ثبت شده توسط %s: '%s'",

		"ban_success":     "کاربر %s با موفقیت از گروه بن شد.",
		"ban_error":       "خطا در بن کردن کاربر %s: %v",
		"demote_success":  "کاربر %s با موفقیت به ادمین معمولی تبدیل شد.",
		"demote_error":    "خطا در تبدیل کاربر %s به ادمین معمولی: %v",
		"promote_special": "کاربر %s با موفقیت به ادمین ویژه تبدیل شد.",
		"title_saved":     "✅ لقب کاربر %s با موفقیت به '%s' تغییر یافت.",
		"title_usage":     "لطفاً بعد از 'لقب' لقب مورد نظر را وارد کنید.",
		"mute_success":    "کاربر %s به مدت %d دقیقه سکوت شد.",
		"mute_usage":      "لطفاً مدت زمان سکوت را به دقیقه و به صورت عدد صحیح وارد کنید (مثال: سکوت 1).",

		"strict_enabled":  "⚙️ حالت سختگیرانه فعال شد. ارسال لینک منجر به بن کاربر می‌شود.",
		"strict_disabled": "⚙️ حالت سختگیرانه غیرفعال شد. ارسال لینک منجر به حذف لینک می‌شود.",

		"filter_toggled":     "✅ فیلتر %s %s شد.",
		"filter_enabled":     "فعال",
		"filter_disabled":    "غیرفعال",
		"voicecall_enabled":  "📞 ویسکال فعال شد.",
		"voicecall_disabled": "🚫 ویسکال غیرفعال شد.",

		"pin_success":   "✅ پیام با موفقیت پین شد.",
		"pin_error":     "خطا در پین کردن پیام: %v",
		"pin_usage":     "برای پین کردن، روی پیام مورد نظر ریپلای کنید و 'پین' را ارسال کنید.",
		"unpin_success": "✅ پیام با موفقیت آنپین شد.",
		"unpin_error":   "خطا در آنپین کردن پیام: %v",
		"unpin_usage":   "برای آنپین کردن، روی پیام مورد نظر ریپلای کنید و 'آنپین' را ارسال کنید.",

		"join_success": "✅ با موفقیت به گروه مورد نظر جوین شدم!",
		"join_error":   "❌ خطایی در جوین شدن به گروه رخ داد: %v",
		"dm_usage":     "لطفاً لینک دعوت گروه را به درستی ارسال کنید (مثال: https://rubika.ir/g/xxxxx).",

		"link_strict_banned":  "کاربر به دلیل ارسال لینک در حالت سختگیرانه بن شد.",
		"link_deleted":        "لینک ارسالی شما حذف شد.",
		"hygiene_deleted":     "پیام حاوی کد نامعتبر یا طولانی حذف شد.",
		"media_deleted":       "ارسال %s مجاز نیست.",
		"story_deleted":       "ارسال استوری مجاز نیست.",
		"other_files_deleted": "ارسال سایر فایل‌ها مجاز نیست.",
	},
	LangEnglish: {
		"unknown_user": "Unknown user",
		"default_user": "User",
		"self_user":    "You",
		"unknown_date": "unknown",

		"welcome_message":  "Hi %s! Welcome to **%s**.\nJoined at: %s",
		"farewell_message": "User %s left the group.",

		"stats_report": "📊 Stats for %s:\n" +
			"📋 Role: %s\n" +
			"👑 Title: %s\n" +
			"💬 Messages: %d\n" +
			"⚠️ Warnings: %d\n" +
			"📝 Original: %s\n" +
			"🕰️ Joined: %s",
		"role_admin":              "Admin",
		"role_member":             "Member",
		"title_none":              "none",
		"original_registered":     "registered",
		"original_not_registered": "not registered",

		"original_saved":       "✅ Your original content was saved: '%s'",
		"original_usage":       "Please provide your original content after the command.",
		"original_echo":        "Your registered original content: '%s'",
		"original_echo_target": "Original content registered by %s: '%s'",

		"ban_success":     "User %s was banned from the group.",
		"ban_error":       "Failed to ban user %s: %v",
		"demote_success":  "User %s was demoted to an ordinary admin.",
		"demote_error":    "Failed to demote user %s: %v",
		"promote_special": "User %s was promoted to special admin.",
		"title_saved":     "✅ Title of user %s was changed to '%s'.",
		"title_usage":     "Please provide the title after the command.",
		"mute_success":    "User %s was muted for %d minutes.",
		"mute_usage":      "Please provide the mute duration as a whole number of minutes (example: mute 1).",

		"strict_enabled":  "⚙️ Strict mode enabled. Sending links now leads to a ban.",
		"strict_disabled": "⚙️ Strict mode disabled. Sent links will only be deleted.",

		"filter_toggled":     "✅ Filter %s is now %s.",
		"filter_enabled":     "enabled",
		"filter_disabled":    "disabled",
		"voicecall_enabled":  "📞 Voice call flag enabled.",
		"voicecall_disabled": "🚫 Voice call flag disabled.",

		"pin_success":   "✅ Message pinned.",
		"pin_error":     "Failed to pin message: %v",
		"pin_usage":     "Reply to the target message and send 'pin'.",
		"unpin_success": "✅ Message unpinned.",
		"unpin_error":   "Failed to unpin message: %v",
		"unpin_usage":   "Reply to the target message and send 'unpin'.",

		"join_success": "✅ Joined the group successfully!",
		"join_error":   "❌ Failed to join the group: %v",
		"dm_usage":     "Please send a valid group invite link (example: https://rubika.ir/g/xxxxx).",

		"link_strict_banned":  "User was banned for sending a link while strict mode is on.",
		"link_deleted":        "Your link was deleted.",
		"hygiene_deleted":     "Message containing invalid characters or too long was deleted.",
		"media_deleted":       "Sending %s is not allowed.",
		"story_deleted":       "Sending stories is not allowed.",
		"other_files_deleted": "Sending other files is not allowed.",
	},
}

// GetTranslation returns the translation for the given language and key,
// falling back to Persian, then to the key itself.
func GetTranslation(language, key string) string {
	if t, ok := Translations[language]; ok {
		if msg, ok := t[key]; ok {
			return msg
		}
	}
	if msg, ok := Translations[LangPersian][key]; ok {
		return msg
	}
	return key
}
