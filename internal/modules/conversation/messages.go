package conversation

const (
	btnChooseRoute  = "Выбрать маршрут"
	btnCancel       = "Отмена"
	btnSearch       = "Поиск"
	btnSendLocation = "📍 Отправить геопозицию"

	welcomeMessage = "Этот бот поможет тебе отслеживать цену на такси " +
		"и, если ты готов подождать, сообщит, когда цена снизится."
	askOriginMessage       = "Пришли мне свою геопозицию или адрес места, откуда поедем."
	askDestinationMessage  = "Пришли мне геопозицию или адрес места, куда поедем."
	notFoundMessage        = "Не смог найти такой адрес, попробуй еще раз."
	lookupFailedMessage    = "Сервис адресов сейчас недоступен, попробуй еще раз чуть позже."
	originSetMessage       = "Отлично, будем искать машину от %s (%s)."
	routeSetMessage        = "Отлично, будем искать машину от %s (%s)\nдо %s (%s).\nНажми «Поиск», чтобы начать следить за ценой."
	searchStartedMessage   = "Начинаю следить за ценой поездки от %s до %s.\nПришлю сообщение, когда цена снизится. Нажми «Отмена», чтобы остановить."
	routeIncompleteMessage = "Не хватает данных о маршруте, давай начнем заново.\n" + askOriginMessage
	sameRouteMessage       = "Точка назначения совпадает с точкой отправления.\n" + askDestinationMessage
	searchFailedMessage    = "Не получилось запустить поиск, попробуй еще раз."
	goodbyeMessage         = "Надеюсь, был тебе полезен, пока!"

	idleHint       = "Нажми /start, чтобы выбрать маршрут."
	menuHint       = "Нажми «" + btnChooseRoute + "», чтобы начать."
	searchHint     = "Я слежу за ценой. Нажми «" + btnSearch + "», чтобы начать заново, или «" + btnCancel + "», чтобы остановить."
	placeInputHint = "Пришли адрес текстом или геопозицию."
)

var (
	menuKeyboard   = [][]Button{{{Text: btnChooseRoute}}}
	placeKeyboard  = [][]Button{{{Text: btnSendLocation, RequestLocation: true}}, {{Text: btnCancel}}}
	searchKeyboard = [][]Button{{{Text: btnSearch}}, {{Text: btnCancel}}}
	cancelKeyboard = [][]Button{{{Text: btnCancel}}}
)
