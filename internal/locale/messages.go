package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// translation holds the Ukrainian and French text for an English key.
type translation struct {
	uk, fr string
}

// Keys are the English strings. Missing keys print as-is.
var catalog = map[string]translation{
	// Menu
	"Pennywise":           {"Pennywise", "Pennywise"},
	"Dashboard":           {"Огляд", "Tableau de bord"},
	"Transactions":        {"Транзакції", "Transactions"},
	"Review Categories":   {"Перегляд категорій", "Revoir les catégories"},
	"Import Transactions": {"Імпорт транзакцій", "Importer des transactions"},
	"Export Transactions": {"Експорт транзакцій", "Exporter des transactions"},
	"Settings":            {"Налаштування", "Paramètres"},
	"Quit":                {"Вихід", "Quitter"},

	// Categories
	"Transport":     {"Транспорт", "Transport"},
	"Shopping":      {"Покупки", "Achats"},
	"Bills":         {"Рахунки", "Factures"},
	"Entertainment": {"Розваги", "Loisirs"},
	"Health":        {"Здоров'я", "Santé"},
	"Education":     {"Освіта", "Éducation"},
	"Salary":        {"Зарплата", "Salaire"},
	"Cash":          {"Готівка", "Espèces"},
	"Credit":        {"Кредит", "Crédit"},
	"Subscriptions": {"Підписки", "Abonnements"},
	"Products":      {"Продукти", "Courses"},
	"Other":         {"Інше", "Autre"},

	// Transaction fields
	"Type":          {"Тип", "Type"},
	"Amount":        {"Сума", "Montant"},
	"Currency":      {"Валюта", "Devise"},
	"Category":      {"Категорія", "Catégorie"},
	"Category name": {"Назва категорії", "Nom de la catégorie"},
	"Custom...":     {"Інша...", "Personnalisée..."},
	"Date":          {"Дата", "Date"},
	"Note":          {"Нотатка", "Note"},
	"Income":        {"Дохід", "Revenu"},
	"Expense":       {"Витрата", "Dépense"},
	"income":        {"доходи", "revenus"},
	"expense":       {"витрати", "dépenses"},
	"Income:":       {"Дохід:", "Revenus :"},
	"Expense:":      {"Витрати:", "Dépenses :"},
	"Balance:":      {"Баланс:", "Solde :"},

	// Dashboard
	"This month (EUR)":    {"Цей місяць (EUR)", "Ce mois-ci (EUR)"},
	"Today":               {"Сьогодні", "Aujourd'hui"},
	"Recent transactions": {"Останні транзакції", "Transactions récentes"},
	"No transactions yet.": {
		"Ще немає транзакцій.", "Aucune transaction pour l'instant.",
	},
	"Esc: back | r: refresh | t: toggle theme": {
		"Esc: назад | r: оновити | t: змінити тему", "Esc : retour | r : actualiser | t : changer de thème",
	},

	// Timeframes
	"This Week":     {"Цей тиждень", "Cette semaine"},
	"Last Week":     {"Минулий тиждень", "La semaine dernière"},
	"This Month":    {"Цей місяць", "Ce mois-ci"},
	"Last Month":    {"Минулий місяць", "Le mois dernier"},
	"All Time":      {"Увесь час", "Toute la période"},
	"Custom Range":  {"Власний період", "Période personnalisée"},
	"Select Timeframe:": {
		"Оберіть період:", "Choisissez une période :",
	},
	"Enter Custom Range:": {"Введіть період:", "Saisissez la période :"},
	"Start Date: ":        {"Початок:   ", "Début :    "},
	"End Date:   ":        {"Кінець:    ", "Fin :      "},
	"(Enter to select, Esc to back)": {
		"(Enter: обрати, Esc: назад)", "(Entrée : choisir, Échap : retour)",
	},
	"(Enter to confirm, Tab to switch, Esc to back)": {
		"(Enter: підтвердити, Tab: перемкнути, Esc: назад)", "(Entrée : valider, Tab : changer, Échap : retour)",
	},
	"invalid start date (YYYY-MM-DD)": {
		"невірна дата початку (РРРР-ММ-ДД)", "date de début invalide (AAAA-MM-JJ)",
	},
	"invalid end date (YYYY-MM-DD)": {
		"невірна дата кінця (РРРР-ММ-ДД)", "date de fin invalide (AAAA-MM-JJ)",
	},
	"end date is before start date": {
		"дата кінця раніше за дату початку", "la date de fin précède la date de début",
	},

	// Transactions
	"New transaction":  {"Нова транзакція", "Nouvelle transaction"},
	"Edit transaction": {"Редагування транзакції", "Modifier la transaction"},
	"Delete this transaction?": {
		"Видалити цю транзакцію?", "Supprimer cette transaction ?",
	},
	"No transactions found.": {"Транзакцій не знайдено.", "Aucune transaction trouvée."},
	"all types":              {"усі типи", "tous les types"},
	"all categories":         {"усі категорії", "toutes les catégories"},
	"Added.":                 {"Додано.", "Ajoutée."},
	"Saved.":                 {"Збережено.", "Enregistrée."},
	"Deleted.":               {"Видалено.", "Supprimée."},
	"Error saving: %v":       {"Помилка збереження: %v", "Erreur d'enregistrement : %v"},
	"Error: %v":              {"Помилка: %v", "Erreur : %v"},
	"Yes":                    {"Так", "Oui"},
	"No":                     {"Ні", "Non"},
	"Date: %s  |  Amount: %s  |  Category: %s\nNote: %s": {
		"Дата: %s  |  Сума: %s  |  Категорія: %s\nНотатка: %s",
		"Date : %s  |  Montant : %s  |  Catégorie : %s\nNote : %s",
	},
	"Esc: back | a: add | Enter: edit | d: delete | t: type | c: category | /: search": {
		"Esc: назад | a: додати | Enter: змінити | d: видалити | t: тип | c: категорія | /: пошук",
		"Esc : retour | a : ajouter | Entrée : modifier | d : supprimer | t : type | c : catégorie | / : chercher",
	},
	"Esc: cancel | Enter/Tab: navigate form": {
		"Esc: скасувати | Enter/Tab: навігація", "Esc : annuler | Entrée/Tab : naviguer",
	},
	"Esc: back | Enter: select": {
		"Esc: назад | Enter: обрати", "Esc : retour | Entrée : choisir",
	},
	"Esc: back | Enter: confirm": {
		"Esc: назад | Enter: підтвердити", "Esc : retour | Entrée : valider",
	},
	"amount is required": {"вкажіть суму", "le montant est requis"},
	"amount must be a number": {
		"сума має бути числом", "le montant doit être un nombre",
	},
	"amount must be greater than zero": {
		"сума має бути більшою за нуль", "le montant doit être supérieur à zéro",
	},
	"category is required":    {"вкажіть категорію", "la catégorie est requise"},
	"date must be YYYY-MM-DD": {"дата у форматі РРРР-ММ-ДД", "la date doit être au format AAAA-MM-JJ"},

	// Review
	"Review uncategorized transactions": {
		"Перегляд транзакцій без категорії", "Revoir les transactions sans catégorie",
	},
	"Reviewing %d/%d": {"Перегляд %d/%d", "Revue %d/%d"},
	"Date: %s  |  Amount: %s\nNote: %s": {
		"Дата: %s  |  Сума: %s\nНотатка: %s", "Date : %s  |  Montant : %s\nNote : %s",
	},
	"Rule: ": {"Правило: ", "Règle : "},
	"text to match in future notes": {
		"текст для пошуку в нотатках", "texte à retrouver dans les notes",
	},
	"All done! No more uncategorized transactions.": {
		"Готово! Транзакцій без категорії більше немає.", "Terminé ! Plus aucune transaction sans catégorie.",
	},
	"No uncategorized transactions found.": {
		"Транзакцій без категорії не знайдено.", "Aucune transaction sans catégorie.",
	},
	"(Esc to back)":    {"(Esc: назад)", "(Échap : retour)"},
	"(Esc to go back)": {"(Esc: назад)", "(Échap : retour)"},
	"↑/↓: category | Tab: edit rule | Enter: save & next | s: skip | Esc: back": {
		"↑/↓: категорія | Tab: правило | Enter: зберегти | s: пропустити | Esc: назад",
		"↑/↓ : catégorie | Tab : règle | Entrée : enregistrer | s : passer | Esc : retour",
	},

	// Import
	"Select statement format:": {"Оберіть формат виписки:", "Choisissez le format du relevé :"},
	"CGD bank statement":       {"Виписка CGD", "Relevé bancaire CGD"},
	"Pennywise CSV":            {"CSV Pennywise", "CSV Pennywise"},
	"Select file to import (%s):": {
		"Оберіть файл для імпорту (%s):", "Choisissez le fichier à importer (%s) :",
	},
	"Importing from %s...":      {"Імпорт з %s...", "Import depuis %s..."},
	"Imported %d transactions.": {"Імпортовано транзакцій: %d.", "%d transactions importées."},
	"%d categorized from saved rules.": {
		"За збереженими правилами категоризовано: %d.", "%d classées grâce aux règles enregistrées.",
	},
	"Possible duplicates": {"Можливі дублікати", "Doublons possibles"},
	"%d new transactions will be imported. Select duplicates to import anyway.": {
		"Буде імпортовано нових транзакцій: %d. Позначте дублікати, які все одно слід імпортувати.",
		"%d nouvelles transactions seront importées. Cochez les doublons à importer quand même.",
	},
	"      Existing: %s  %s  %s [%s]": {
		"      Наявна: %s  %s  %s [%s]", "      Existante : %s  %s  %s [%s]",
	},
	"Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel": {
		"Пробіл: позначити | a: усі | n: жодної | Enter: підтвердити | Esc: скасувати",
		"Espace : cocher | a : tout | n : rien | Entrée : valider | Esc : annuler",
	},

	// Export
	"Output directory": {"Каталог для збереження", "Dossier de sortie"},
	"Directory will be created if it doesn't exist": {
		"Каталог буде створено, якщо його немає", "Le dossier sera créé s'il n'existe pas",
	},
	"Exporting...":              {"Експорт...", "Export..."},
	"Exporting transactions...": {"Експорт транзакцій...", "Export des transactions..."},
	"Export Complete!":          {"Експорт завершено!", "Export terminé !"},
	"%d transactions written to %s": {
		"Записано транзакцій: %d у %s", "%d transactions écrites dans %s",
	},
	"Esc: back to menu": {"Esc: до меню", "Esc : retour au menu"},

	// Settings
	"Theme":           {"Тема", "Thème"},
	"Automatic theme": {"Автоматична тема", "Thème automatique"},
	"Language":        {"Мова", "Langue"},
	"Light":           {"Світла", "Clair"},
	"Dark":            {"Темна", "Sombre"},
	"On":              {"Увімк.", "Activé"},
	"Off":             {"Вимк.", "Désactivé"},
	"Delete all transactions": {
		"Видалити всі транзакції", "Supprimer toutes les transactions",
	},
	"Delete all transactions?": {
		"Видалити всі транзакції?", "Supprimer toutes les transactions ?",
	},
	"This cannot be undone.": {"Цю дію неможливо скасувати.", "Cette action est irréversible."},
	"All transactions deleted.": {
		"Усі транзакції видалено.", "Toutes les transactions ont été supprimées.",
	},
	"Light from %02d:00, dark from %02d:00.": {
		"Світла з %02d:00, темна з %02d:00.", "Clair dès %02d:00, sombre dès %02d:00.",
	},
	"↑/↓: move | Enter: change | Esc: back": {
		"↑/↓: рух | Enter: змінити | Esc: назад", "↑/↓ : naviguer | Entrée : modifier | Esc : retour",
	},
	"Saved, but the category rule was not stored.": {
		"Збережено, але правило категорії не записано.", "Enregistrée, mais la règle de catégorie n'a pas été conservée.",
	},
}

func init() {
	for key, t := range catalog {
		_ = message.SetString(language.Ukrainian, key, t.uk)
		_ = message.SetString(language.French, key, t.fr)
	}
}
