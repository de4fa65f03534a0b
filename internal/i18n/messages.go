// Package i18n holds the translated reply catalog for the bot surface.
package i18n

import "strings"

// Args carries named placeholder values for a message template.
type Args map[string]string

var catalog = map[string]map[string]string{
	"en": {
		"welcome_authenticated": "👋 *Hello {name}!*\n\n" +
			"How can I help you today? You can track expenses, manage reminders, and view summaries.\n\n" +
			"Type /help for examples!",
		"welcome_unauthenticated": "👋 *Welcome to OkanAssist!* Your personal AI tool for financial assistance.\n\n" +
			"I use AI to help you effortlessly track your finances. Here's what you can do:\n\n" +
			"💸 *Track Transactions:* Just say 'spent $15 on lunch' or 'received $500 salary'.\n" +
			"📸 *Process Documents:* Send me a photo of a receipt or a PDF bank statement.\n" +
			"⏰ *Set Reminders:* Tell me 'remind me to pay the internet bill on Friday'.\n" +
			"📊 *Get Summaries:* Ask for your weekly spending or income reports.\n\n" +
			"To unlock these features, please create your account by typing /register.",
		"need_register_premium":       "🔐 You need to register first. Type /register to create your account, then try again.",
		"already_registered":          "❌ This Telegram account is already registered with email: {email}",
		"link_success":                "✅ Telegram account linked to existing email! Welcome back {name}!",
		"link_failed":                 "❌ Failed to link accounts. Please contact support.",
		"registration_failed":         "❌ Registration failed: {message}",
		"registration_success": "✅ Registration successful! Welcome, {name}! 🎉\n\n" +
			"You can now use our mobile app for advanced management and features.\n" +
			"Download it here: {download_url}\n\n" +
			"🔑 *Your login password for the mobile app is:* `{password}`\n" +
			"Please keep it safe. You can change it anytime in your profile settings.",
		"registration_linking_failed": "❌ Registration failed during account linking. Please try again.",
		"user_not_registered":         "User not registered. Please use /register command first.",
		"failed_retrieve_user_data":   "❌ Failed to retrieve user data after linking. Please try logging in again or contact support.",
		"transaction_created": "{emoji} *Transaction recorded!*\n\n" +
			"📝 *Description:* {description}\n" +
			"💵 *Amount:* ${amount}\n" +
			"📂 *Category:* {category}\n" +
			"📊 *Type:* {transaction_type}\n",
		"success_process_receipt": "📸 *Receipt processed successfully!*\n\n" +
			"🏪 *Merchant:* {merchant}\n" +
			"💵 *Amount:* ${amount}\n" +
			"📂 *Category:* {category}\n" +
			"📅 *Date:* {date}\n\n" +
			"Transaction automatically saved! ✅\n",
		"success_process_pdf": "📄 *Bank statement processed!*\n\n" +
			"✅ *{saved_count} transactions imported*\n" +
			"📊 *Ready for analysis*\n\n" +
			"Use /balance to see your updated summary!\n",
		"reminder_created": "✅ *Reminder Created!*\n\n" +
			"📝 *Title:* {title}\n" +
			"🗓️ *Due:* {due_date}\n" +
			"⚡ *Priority:* {priority}\n" +
			"🏷️ *Type:* {type}",
		"reminder_not_found":          "🤔 I couldn't find a reminder in your message. Try something like 'remind me to call mom tomorrow'.",
		"reminder_creation_failed":    "❌ Sorry, I couldn't create that reminder. Please try again.",
		"no_pending_reminders":        "👍 You have no pending reminders. Great job!",
		"pending_reminders_header":    "🗓️ *Here are your upcoming reminders:*",
		"reminder_fetch_failed":       "❌ Sorry, I couldn't fetch your reminders right now.",
		"reminders_completed":         "✅ Marked {count} reminder(s) as done for {period}.",
		"no_reminders_to_complete":    "🤷 No reminders to complete for {period}.",
		"period_all":                  "all time",
		"no_transactions_for_report":  "I couldn't find any transactions in the selected date range to generate a report.",
		"unclear_transaction_intent":  "🤔 I'm not sure what to do with that. You can log an expense, ask for a summary, or request a report.",
		"help_message": "🤖 *OkanAssist Bot Help*\n\n" +
			"*💰 Transactions*\n" +
			"You can manage your finances just by talking to me!\n\n" +
			"• *Log transactions:* \"Spent $25 on lunch\", \"Received $3000 salary\"\n" +
			"• *Get summaries:* \"Show my spending this month\", \"What's my income for last week?\"\n\n" +
			"*⏰ Reminders*\n" +
			"Organize your life with smart reminders.\n\n" +
			"• *Create reminders:* \"Remind me to pay bills tomorrow at 3pm\"\n" +
			"• *View reminders:* \"Show my urgent reminders\", \"What are my tasks for today?\"\n\n" +
			"*📄 Document Processing*\n" +
			"• Send a photo of a receipt to automatically log an expense.\n" +
			"• Send a PDF bank statement for bulk transaction import.\n\n" +
			"*🎯 Commands*\n" +
			"/start - Get started or log in\n" +
			"/register - Create your account\n" +
			"/help - Show this help message\n" +
			"/upgrade - Get unlimited access\n\n" +
			"Just talk to me naturally - I understand! 🎉",
		"credit_warning":       "\n\n💳 **Credits remaining: {credits_remaining}**",
		"credit_low":           "\n🚨 Almost out of credits! Type /upgrade for unlimited usage.",
		"insufficient_credits": "🚀 You've reached your credit limit. To continue, please /upgrade for unlimited access.",
		"session_expired":      "⏰ Your session has expired. Please log in again with /start.",
		"generic_error":        "❌ Something went wrong. Please try again or contact support.",
		"audio_failed":         "❌ Sorry, I couldn't process your audio. Please try again or use text input.",
		"upgrade_to_premium":   "🚀 *Upgrade to Premium!*\n\nClick the link below to unlock unlimited AI features: [Upgrade Now]({payment_url})",
		"already_premium":      "✅ You are already a premium user! Enjoy unlimited access to all features.",
	},
	"es": {
		"welcome_authenticated": "👋 ¡*Hola {name}!*\n\n" +
			"¿Cómo puedo ayudarte hoy? Puedes registrar gastos, gestionar recordatorios y ver resúmenes.\n\n" +
			"Escribe /help para ver ejemplos.",
		"welcome_unauthenticated": "👋 ¡*Bienvenido a OkanAssist!* Tu asistente financiero personal.\n\n" +
			"Uso IA para ayudarte a registrar tus finanzas sin esfuerzo. Esto es lo que puedes hacer:\n\n" +
			"💸 *Registra Transacciones:* Solo di 'gasté $15 en el almuerzo' o 'recibí $500 de salario'.\n" +
			"📸 *Procesa Documentos:* Envíame una foto de un recibo o un extracto bancario en PDF.\n" +
			"⏰ *Crea Recordatorios:* Dime 'recuérdame pagar la factura de internet el viernes'.\n" +
			"📊 *Obtén Resúmenes:* Pide tus informes de gastos o ingresos semanales.\n\n" +
			"Para desbloquear estas funciones, por favor crea tu cuenta escribiendo /register.",
		"need_register_premium":       "🔐 Necesitas registrarte primero. Escribe /register para crear tu cuenta y vuelve a intentarlo.",
		"already_registered":          "❌ Esta cuenta de Telegram ya está registrada con el email: {email}",
		"link_success":                "✅ ¡Cuenta de Telegram vinculada a un email existente! ¡Bienvenido de nuevo {name}!",
		"link_failed":                 "❌ No se pudo vincular la cuenta. Por favor, contacta a soporte.",
		"registration_failed":         "❌ El registro falló: {message}",
		"registration_success": "✅ ¡Registro exitoso! ¡Bienvenido/a, {name}! 🎉\n\n" +
			"Ahora puedes usar nuestra aplicación móvil para una gestión avanzada y más funciones.\n" +
			"Descárgala aquí: {download_url}\n\n" +
			"🔑 *Tu contraseña para iniciar sesión en la app móvil es:* `{password}`\n" +
			"Por favor, guárdala en un lugar seguro. Puedes cambiarla en cualquier momento desde tu perfil.",
		"registration_linking_failed": "❌ El registro falló durante la vinculación de la cuenta. Por favor, inténtalo de nuevo.",
		"user_not_registered":         "Usuario no registrado. Por favor, usa el comando /register primero.",
		"failed_retrieve_user_data":   "❌ No se pudieron recuperar los datos del usuario después de la vinculación. Por favor, inicia sesión de nuevo o contacta a soporte.",
		"transaction_created": "{emoji} *¡Transacción registrada!*\n\n" +
			"📝 *Descripción:* {description}\n" +
			"💵 *Monto:* ${amount}\n" +
			"📂 *Categoría:* {category}\n" +
			"📊 *Tipo:* {transaction_type}\n",
		"success_process_receipt": "📸 *¡Recibo procesado con éxito!*\n\n" +
			"🏪 *Comercio:* {merchant}\n" +
			"💵 *Monto:* ${amount}\n" +
			"📂 *Categoría:* {category}\n" +
			"📅 *Fecha:* {date}\n\n" +
			"¡Transacción guardada automáticamente! ✅\n",
		"success_process_pdf": "📄 *¡Extracto bancario procesado!*\n\n" +
			"✅ *{saved_count} transacciones importadas*\n" +
			"📊 *Listo para análisis*\n\n" +
			"¡Usa /balance para ver tu resumen actualizado!\n",
		"reminder_created": "✅ ¡*Recordatorio Creado!*\n\n" +
			"📝 *Título:* {title}\n" +
			"🗓️ *Vence:* {due_date}\n" +
			"⚡ *Prioridad:* {priority}\n" +
			"🏷️ *Tipo:* {type}",
		"reminder_not_found":          "🤔 No pude encontrar un recordatorio en tu mensaje. Intenta algo como 'recuérdame llamar a mamá mañana'.",
		"reminder_creation_failed":    "❌ Lo siento, no pude crear ese recordatorio. Por favor, inténtalo de nuevo.",
		"no_pending_reminders":        "👍 No tienes recordatorios pendientes. ¡Buen trabajo!",
		"pending_reminders_header":    "🗓️ *Aquí están tus próximos recordatorios:*",
		"reminder_fetch_failed":       "❌ Lo siento, no pude obtener tus recordatorios en este momento.",
		"reminders_completed":         "✅ Marqué {count} recordatorio(s) como completados para {period}.",
		"no_reminders_to_complete":    "🤷 No hay recordatorios para completar en {period}.",
		"period_all":                  "todo el historial",
		"no_transactions_for_report":  "No encontré ninguna transacción en el rango de fechas seleccionado para generar un reporte.",
		"unclear_transaction_intent":  "🤔 No estoy seguro de qué hacer con eso. Puedes registrar un gasto, pedir un resumen o solicitar un reporte.",
		"help_message": "🤖 *Ayuda de OkanAssist Bot*\n\n" +
			"*💰 Transacciones*\n" +
			"¡Puedes gestionar tus finanzas simplemente hablando conmigo!\n\n" +
			"• *Registra transacciones:* \"Gasté $25 en el almuerzo\", \"Recibí $3000 de salario\"\n" +
			"• *Obtén resúmenes:* \"Muéstrame mis gastos de este mes\", \"¿Cuáles fueron mis ingresos de la semana pasada?\"\n\n" +
			"*⏰ Recordatorios*\n" +
			"Organiza tu vida con recordatorios inteligentes.\n\n" +
			"• *Crea recordatorios:* \"Recuérdame pagar las facturas mañana a las 3pm\"\n" +
			"• *Ver recordatorios:* \"Muestra mis recordatorios urgentes\", \"¿Cuáles son mis tareas para hoy?\"\n\n" +
			"*📄 Procesamiento de Documentos*\n" +
			"• Envía una foto de un recibo para registrar un gasto automáticamente.\n" +
			"• Envía un extracto bancario en PDF para importar transacciones en bloque.\n\n" +
			"*🎯 Comandos*\n" +
			"/start - Empezar o iniciar sesión\n" +
			"/register - Crear tu cuenta\n" +
			"/help - Mostrar este mensaje de ayuda\n" +
			"/upgrade - Obtener acceso ilimitado\n\n" +
			"¡Solo háblame con naturalidad! 🎉",
		"credit_warning":       "\n\n💳 **Créditos restantes: {credits_remaining}**",
		"credit_low":           "\n🚨 ¡Casi sin créditos! Escribe /upgrade para uso ilimitado.",
		"insufficient_credits": "🚀 Has alcanzado tu límite de créditos. Para continuar, por favor usa /upgrade para acceso ilimitado.",
		"session_expired":      "⏰ Tu sesión ha expirado. Por favor, inicia sesión de nuevo con /start.",
		"generic_error":        "❌ Algo salió mal. Por favor, inténtalo de nuevo o contacta a soporte.",
		"audio_failed":         "❌ Lo siento, no pude procesar tu audio. Por favor, inténtalo de nuevo o usa texto.",
		"upgrade_to_premium":   "🚀 ¡*Actualiza a Premium!*\n\nHaz clic en el enlace para desbloquear funciones ilimitadas de IA: [Actualizar ahora]({payment_url})",
		"already_premium":      "✅ ¡Ya eres un usuario premium! Disfruta de acceso ilimitado a todas las funciones.",
	},
	"pt": {
		"welcome_authenticated": "👋 *Olá {name}!*\n\n" +
			"Como posso te ajudar hoje? Você pode registrar despesas, gerenciar lembretes e ver resumos.\n\n" +
			"Digite /help para ver exemplos.",
		"welcome_unauthenticated": "👋 *Bem-vindo ao OkanAssist!* Seu assistente financeiro pessoal.\n\n" +
			"Eu uso IA para te ajudar a controlar suas finanças sem esforço. Veja o que você pode fazer:\n\n" +
			"💸 *Monitore Transações:* Apenas diga 'gastei R$15 no almoço' ou 'recebi R$500 de salário'.\n" +
			"📸 *Processe Documentos:* Envie-me a foto de um recibo ou um extrato bancário em PDF.\n" +
			"⏰ *Crie Lembretes:* Diga-me 'lembre-me de pagar a conta de internet na sexta-feira'.\n" +
			"📊 *Obtenha Resumos:* Peça seus relatórios de gastos ou receitas semanais.\n\n" +
			"Para desbloquear esses recursos, por favor, crie sua conta digitando /register.",
		"need_register_premium":       "🔐 Você precisa se registrar primeiro. Digite /register para criar sua conta e tente novamente.",
		"already_registered":          "❌ Esta conta do Telegram já está registrada com o e-mail: {email}",
		"link_success":                "✅ Conta do Telegram vinculada a um e-mail existente! Bem-vindo de volta {name}!",
		"link_failed":                 "❌ Falha ao vincular a conta. Por favor, entre em contato com o suporte.",
		"registration_failed":         "❌ O registro falhou: {message}",
		"registration_success":        "✅ Registro realizado com sucesso! Bem-vindo(a), {name}!",
		"registration_linking_failed": "❌ O registro falhou durante a vinculação da conta. Por favor, tente novamente.",
		"user_not_registered":         "Usuário não registrado. Por favor, use o comando /register primeiro.",
		"failed_retrieve_user_data":   "❌ Falha ao recuperar os dados do usuário após a vinculação. Por favor, faça login novamente ou contate o suporte.",
		"transaction_created": "{emoji} *Transação registrada!*\n\n" +
			"📝 *Descrição:* {description}\n" +
			"💵 *Montante:* ${amount}\n" +
			"📂 *Categoria:* {category}\n" +
			"📊 *Tipo:* {transaction_type}\n",
		"success_process_receipt": "📸 *Recibo processado com sucesso!*\n\n" +
			"🏪 *Comercio:* {merchant}\n" +
			"💵 *Valor:* ${amount}\n" +
			"📂 *Categoria:* {category}\n" +
			"📅 *Data:* {date}\n\n" +
			"Transação salva automaticamente! ✅\n",
		"success_process_pdf": "📄 *Extrato bancário processado!*\n\n" +
			"✅ *{saved_count} transações importadas*\n" +
			"📊 *Pronto para análise*\n\n" +
			"Use /balance para ver seu resumo atualizado!\n",
		"reminder_created": "✅ *Lembrete Criado!*\n\n" +
			"📝 *Título:* {title}\n" +
			"🗓️ *Vencimento:* {due_date}\n" +
			"⚡ *Prioridade:* {priority}\n" +
			"🏷️ *Tipo:* {type}",
		"reminder_not_found":          "🤔 Não consegui encontrar um lembrete na sua mensagem. Tente algo como 'lembre-me de ligar para a mamãe amanhã'.",
		"reminder_creation_failed":    "❌ Desculpe, não consegui criar esse lembrete. Por favor, tente novamente.",
		"no_pending_reminders":        "👍 Você não tem lembretes pendentes. Ótimo trabalho!",
		"pending_reminders_header":    "🗓️ *Aqui estão seus próximos lembretes:*",
		"reminder_fetch_failed":       "❌ Desculpe, não consegui buscar seus lembretes agora.",
		"reminders_completed":         "✅ Marquei {count} lembrete(s) como concluídos para {period}.",
		"no_reminders_to_complete":    "🤷 Nenhum lembrete para concluir em {period}.",
		"period_all":                  "todo o histórico",
		"no_transactions_for_report":  "Não encontrei nenhuma transação no período selecionado para gerar um relatório.",
		"unclear_transaction_intent":  "🤔 Não tenho certeza do que fazer com isso. Você pode registrar uma despesa, pedir um resumo ou solicitar um relatório.",
		"help_message": "🤖 *Ajuda do OkanAssist Bot*\n\n" +
			"*💰 Transações*\n" +
			"Você pode gerenciar suas finanças apenas falando comigo!\n\n" +
			"• *Registre transações:* \"Gastei R$25 no almoço\", \"Recebi R$3000 de salário\"\n" +
			"• *Obtenha resumos:* \"Mostre meus gastos deste mês\", \"Qual foi minha receita da semana passada?\"\n\n" +
			"*⏰ Lembretes*\n" +
			"Organize sua vida com lembretes inteligentes.\n\n" +
			"• *Crie lembretes:* \"Lembre-me de pagar as contas amanhã às 15h\"\n" +
			"• *Veja lembretes:* \"Mostre meus lembretes urgentes\", \"Quais são minhas tarefas para hoje?\"\n\n" +
			"*📄 Processamento de Documentos*\n" +
			"• Envie a foto de um recibo para registrar uma despesa automaticamente.\n" +
			"• Envie um extrato bancário em PDF para importar transações em massa.\n\n" +
			"*🎯 Comandos*\n" +
			"/start - Começar ou fazer login\n" +
			"/register - Criar sua conta\n" +
			"/help - Mostrar esta mensagem de ajuda\n" +
			"/upgrade - Obter acesso ilimitado\n\n" +
			"É só falar comigo normalmente! 🎉",
		"credit_warning":       "\n\n💳 **Créditos restantes: {credits_remaining}**",
		"credit_low":           "\n🚨 Quase sem créditos! Digite /upgrade para uso ilimitado.",
		"insufficient_credits": "🚀 Você atingiu seu limite de créditos. Para continuar, por favor, use /upgrade para acesso ilimitado.",
		"session_expired":      "⏰ Sua sessão expirou. Por favor, faça login novamente com /start.",
		"generic_error":        "❌ Algo deu errado. Por favor, tente novamente ou entre em contato com o suporte.",
		"audio_failed":         "❌ Desculpe, não consegui processar seu áudio. Por favor, tente novamente ou use texto.",
		"upgrade_to_premium":   "🚀 *Faça o Upgrade para Premium!*\n\nClique no link abaixo para desbloquear recursos ilimitados de IA: [Fazer Upgrade Agora]({payment_url})",
		"already_premium":      "✅ Você já é um usuário premium! Aproveite o acesso ilimitado a todos os recursos.",
	},
}

// Message resolves key in the given language, falling back to English per
// key when the language or the key is missing. Placeholders of the form
// {name} are substituted from args.
func Message(key, lang string, args Args) string {
	short := shortLang(lang)
	messages, ok := catalog[short]
	if !ok {
		messages = catalog["en"]
	}
	tmpl, ok := messages[key]
	if !ok {
		tmpl, ok = catalog["en"][key]
		if !ok {
			return "Message key not found."
		}
	}
	return substitute(tmpl, args)
}

func substitute(tmpl string, args Args) string {
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func shortLang(lang string) string {
	if lang == "" {
		return "en"
	}
	if i := strings.IndexByte(lang, '-'); i > 0 {
		return lang[:i]
	}
	if i := strings.IndexByte(lang, '_'); i > 0 {
		return lang[:i]
	}
	return lang
}
