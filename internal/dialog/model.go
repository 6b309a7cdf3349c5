package dialog

type State string

const (
	StateIdle State = "idle"

	// Login
	StateLoginUsername State = "login_username"
	StateLoginPassword State = "login_password"

	// Persons
	StatePersonMenu   State = "person_menu"
	StatePersonName   State = "person_name"   // name for a new person
	StatePersonRename State = "person_rename" // new name for the picked person

	// Transactions
	StateTxMenu       State = "tx_menu"
	StateTxType       State = "tx_type"
	StateTxPickPerson State = "tx_pick_person" // entity for in/out/conversion
	StateTxPickFrom   State = "tx_pick_from"   // transfer source
	StateTxPickTo     State = "tx_pick_to"     // transfer target
	StateTxAmount     State = "tx_amount"
	StateTxCurrency   State = "tx_currency"
	StateTxToCurrency State = "tx_to_currency" // conversion target currency
	StateTxRate       State = "tx_rate"
	StateTxDesc       State = "tx_desc"
	StateTxConfirm    State = "tx_confirm"
	StateTxList       State = "tx_list"

	// Partner expenses
	StateExpMenu     State = "exp_menu"
	StateExpCatName  State = "exp_cat_name"
	StateExpCatRen   State = "exp_cat_rename"
	StateExpPickCat  State = "exp_pick_cat"
	StateExpAmount   State = "exp_amount"
	StateExpDesc     State = "exp_desc"
	StateExpCatView  State = "exp_cat_view"

	// Products
	StateProdMenu       State = "prod_menu"
	StateProdList       State = "prod_list"
	StateProdItem       State = "prod_item"
	StateProdCode       State = "prod_code" // item_code for a new product
	StateProdSpec       State = "prod_spec"
	StateProdCNYPrice   State = "prod_cny_price"
	StateProdUSDPrice   State = "prod_usd_price"
	StateProdImportFile State = "prod_import_file" // waiting for catalog xlsx

	// Inventory
	StateStockMenu       State = "stock_menu"
	StateStockList       State = "stock_list"
	StateStockItem       State = "stock_item"
	StateStockSetQty     State = "stock_set_qty" // new base quantity
	StateStockImportFile State = "stock_import_file"

	// Invoices
	StateInvMenu       State = "inv_menu"
	StateInvPickPerson State = "inv_pick_person"
	StateInvCurrency   State = "inv_currency"
	StateInvPickProd   State = "inv_pick_prod"
	StateInvQty        State = "inv_qty"
	StateInvPrice      State = "inv_price"
	StateInvCart       State = "inv_cart"
	StateInvDiscount   State = "inv_discount"
	StateInvConfirm    State = "inv_confirm"
	StateInvList       State = "inv_list"

	// Deliveries
	StateDelMenu     State = "del_menu"
	StateDelPickCat  State = "del_pick_cat"
	StateDelCatName  State = "del_cat_name"
	StateDelDate     State = "del_date"
	StateDelCartons  State = "del_cartons"
	StateDelWeight   State = "del_weight"
	StateDelReceipt  State = "del_receipt"
	StateDelType     State = "del_type"
	StateDelDest     State = "del_dest"
	StateDelDesc     State = "del_desc"
	StateDelPhotos   State = "del_photos" // optional receipt/cargo photos
	StateDelConfirm  State = "del_confirm"
	StateDelList     State = "del_list"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
