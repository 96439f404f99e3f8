package i18n

var catalog = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":               "Invalid request",
		"error.unauthorized":              "Please log in first",
		"error.forbidden":                 "You do not have permission for this action",
		"error.internal":                  "Internal server error",
		"error.not_found":                 "Resource not found",
		"error.user_id_invalid":           "Invalid user id",
		"error.user_id_type_invalid":      "Invalid user id type",
		"error.admin_id_invalid":          "Invalid admin id",
		"error.admin_id_type_invalid":     "Invalid admin id type",
		"error.auth_header_missing":       "Authorization header is missing",
		"error.auth_header_invalid":       "Authorization header is malformed",
		"error.token_invalid":             "Token is invalid or expired",
		"error.token_revoked":             "Token has been revoked, please log in again",
		"error.jwt_secret_missing":        "Token secret is not configured",
		"error.user_disabled":             "Account is disabled",
		"error.rate_limited":              "Too many requests, retry in %d seconds",
		"error.login_too_many":            "Too many login attempts, retry in %d seconds",
		"error.rate_limit_unavailable":    "Rate limiter is unavailable",
		"error.product_not_found":         "Product not found",
		"error.product_invalid":           "Product data is invalid",
		"error.product_fetch_failed":      "Failed to load products",
		"error.product_create_failed":     "Failed to create product",
		"error.product_update_failed":     "Failed to update product",
		"error.product_delete_failed":     "Failed to delete product",
		"error.cart_item_invalid":         "Cart item is invalid",
		"error.cart_fetch_failed":         "Failed to load cart",
		"error.cart_update_failed":        "Failed to update cart",
		"error.cart_empty":                "Your cart is empty",
		"error.checkout_conflict":         "Your cart changed during checkout, please retry",
		"error.order_create_failed":       "Failed to place order",
		"error.order_not_found":           "Order not found",
		"error.order_fetch_failed":        "Failed to load orders",
		"error.invoice_format_invalid":    "Unsupported invoice format",
		"error.invoice_render_failed":     "Failed to render invoice",
		"error.email_exists":              "Email is already registered",
		"error.email_invalid":             "Email is invalid",
		"error.password_mismatch":         "Passwords do not match",
		"error.invalid_credentials":       "Invalid email or password",
		"error.admin_invalid_credentials": "Invalid username or password",
		"error.admin_password_invalid":    "Current password is incorrect",
		"error.role_invalid":              "Invalid role",
		"error.authz_update_failed":       "Failed to update permissions",
		"error.reset_token_invalid":       "Reset link is invalid or expired",
		"error.password_weak":             "Password does not meet the policy",
		"error.password_min_length":       "Password must be at least %d characters",
		"error.password_require_upper":    "Password must contain an uppercase letter",
		"error.password_require_lower":    "Password must contain a lowercase letter",
		"error.password_require_number":   "Password must contain a number",
		"error.password_require_special":  "Password must contain a special character",
		"error.captcha_required":          "Captcha is required",
		"error.captcha_invalid":           "Captcha is incorrect",
		"error.captcha_config_invalid":    "Captcha is not configured",
		"error.import_file_invalid":       "Import file is invalid",
		"error.import_failed":             "Failed to import products",
		"error.export_failed":             "Failed to export products",
		"error.search_failed":             "Search is unavailable",
		"error.signup_failed":             "Failed to sign up",
		"error.login_failed":              "Failed to log in",
		"error.reset_failed":              "Failed to reset password",
		"email.welcome.subject":           "Welcome to %s",
		"email.welcome.body":              "Hi %s,\n\nYour account at %s is ready. Happy shopping!",
		"email.password_reset.subject":    "Reset your password",
		"email.password_reset.body":       "We received a request to reset your password.\n\nOpen this link within %d minutes to choose a new one:\n%s\n\nIf you did not ask for this, ignore this email.",
		"email.order_placed.subject":      "Order #%d confirmed",
		"email.order_placed.body":         "Thanks for your order #%d.\n\n%s\nThe invoice is available in your order history.",
	},
	LocaleZhCN: {
		"error.bad_request":               "请求参数错误",
		"error.unauthorized":              "请先登录",
		"error.forbidden":                 "无权执行该操作",
		"error.internal":                  "服务器内部错误",
		"error.not_found":                 "资源不存在",
		"error.user_id_invalid":           "用户 ID 无效",
		"error.user_id_type_invalid":      "用户 ID 类型错误",
		"error.admin_id_invalid":          "管理员 ID 无效",
		"error.admin_id_type_invalid":     "管理员 ID 类型错误",
		"error.auth_header_missing":       "缺少认证信息",
		"error.auth_header_invalid":       "认证信息格式错误",
		"error.token_invalid":             "Token 无效或已过期",
		"error.token_revoked":             "登录状态已失效，请重新登录",
		"error.jwt_secret_missing":        "未配置 Token 密钥",
		"error.user_disabled":             "账号已被禁用",
		"error.rate_limited":              "请求过于频繁，请 %d 秒后重试",
		"error.login_too_many":            "登录尝试过多，请 %d 秒后重试",
		"error.rate_limit_unavailable":    "限流服务不可用",
		"error.product_not_found":         "商品不存在",
		"error.product_invalid":           "商品信息无效",
		"error.product_fetch_failed":      "商品加载失败",
		"error.product_create_failed":     "商品创建失败",
		"error.product_update_failed":     "商品更新失败",
		"error.product_delete_failed":     "商品删除失败",
		"error.cart_item_invalid":         "购物车项无效",
		"error.cart_fetch_failed":         "购物车加载失败",
		"error.cart_update_failed":        "购物车更新失败",
		"error.cart_empty":                "购物车为空",
		"error.checkout_conflict":         "结算期间购物车已变化，请重试",
		"error.order_create_failed":       "下单失败",
		"error.order_not_found":           "订单不存在",
		"error.order_fetch_failed":        "订单加载失败",
		"error.invoice_format_invalid":    "不支持的发票格式",
		"error.invoice_render_failed":     "发票生成失败",
		"error.email_exists":              "邮箱已注册",
		"error.email_invalid":             "邮箱格式错误",
		"error.password_mismatch":         "两次输入的密码不一致",
		"error.invalid_credentials":       "邮箱或密码错误",
		"error.admin_invalid_credentials": "用户名或密码错误",
		"error.admin_password_invalid":    "当前密码不正确",
		"error.role_invalid":              "角色不合法",
		"error.authz_update_failed":       "权限更新失败",
		"error.reset_token_invalid":       "重置链接无效或已过期",
		"error.password_weak":             "密码不符合安全策略",
		"error.password_min_length":       "密码长度至少 %d 位",
		"error.password_require_upper":    "密码需包含大写字母",
		"error.password_require_lower":    "密码需包含小写字母",
		"error.password_require_number":   "密码需包含数字",
		"error.password_require_special":  "密码需包含特殊字符",
		"error.captcha_required":          "请输入验证码",
		"error.captcha_invalid":           "验证码错误",
		"error.captcha_config_invalid":    "验证码未配置",
		"error.import_file_invalid":       "导入文件无效",
		"error.import_failed":             "商品导入失败",
		"error.export_failed":             "商品导出失败",
		"error.search_failed":             "搜索服务不可用",
		"error.signup_failed":             "注册失败",
		"error.login_failed":              "登录失败",
		"error.reset_failed":              "重置密码失败",
		"email.welcome.subject":           "欢迎加入 %s",
		"email.welcome.body":              "%s 您好，\n\n您在 %s 的账号已创建，祝购物愉快！",
		"email.password_reset.subject":    "重置密码",
		"email.password_reset.body":       "我们收到了重置密码的请求。\n\n请在 %d 分钟内打开以下链接设置新密码：\n%s\n\n如非本人操作请忽略此邮件。",
		"email.order_placed.subject":      "订单 #%d 已确认",
		"email.order_placed.body":         "感谢您的订单 #%d。\n\n%s\n发票可在订单记录中下载。",
	},
}
